package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// RecordSubmission pretty-prints a resolution record to console.
func (c *ConsoleStorage) RecordSubmission(ctx context.Context, rec *SubmissionRecord) error {
	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if rec.Abstained {
		fmt.Printf("⏸  RESOLUTION ABSTAINED\n")
	} else {
		fmt.Printf("⚖️  OUTCOME PROPOSED\n")
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Record:     %s\n", rec.ID[:8])
	fmt.Printf("Market:     %d\n", rec.MarketID)
	fmt.Printf("Question:   %s\n", rec.Question)
	fmt.Printf("Domain:     %s\n", rec.Domain)
	fmt.Printf("Time:       %s\n", rec.SubmittedAt.Format("2006-01-02 15:04:05"))
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📋 VERDICT\n")
	fmt.Printf("  Answer:      %t\n", rec.Answer)
	fmt.Printf("  Confidence:  %.2f\n", rec.Confidence)
	fmt.Printf("  Explanation: %s\n", rec.Explanation)
	if !rec.Abstained {
		fmt.Printf("  Tx:          %s\n", rec.TxHash)
		fmt.Printf("  Evidence:    %s\n", rec.EvidenceURI)
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
