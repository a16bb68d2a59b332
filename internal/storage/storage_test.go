package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/predico/oracle-pipeline/pkg/types"
	"go.uber.org/zap"
)

func testRecord(abstained bool) *SubmissionRecord {
	rec := &SubmissionRecord{
		ID:          uuid.NewString(),
		MarketID:    42,
		Question:    "Will BTC close above $110k?",
		Domain:      types.DomainFinancial,
		Answer:      true,
		Confidence:  0.91,
		Explanation: "both sources above threshold",
		Abstained:   abstained,
		SubmittedAt: time.Now().UTC(),
	}
	if !abstained {
		rec.TxHash = "0xabc123"
		rec.EvidenceURI = "https://oracle.predico.io/markets/42"
	}
	return rec
}

func TestConsoleStorage_RecordSubmission(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	storage := NewConsoleStorage(logger)

	rec := testRecord(false)
	ctx := context.Background()

	// Capture stdout
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.RecordSubmission(ctx, rec)

	// Restore stdout
	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)
	output := buf.String()

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains([]byte(output), []byte("OUTCOME PROPOSED")) {
		t.Error("expected output to contain 'OUTCOME PROPOSED'")
	}

	if !bytes.Contains([]byte(output), []byte(rec.Question)) {
		t.Error("expected output to contain the market question")
	}
}

func TestConsoleStorage_RecordAbstention(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	storage := NewConsoleStorage(logger)

	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	err := storage.RecordSubmission(context.Background(), testRecord(true))

	w.Close()
	os.Stdout = oldStdout

	var buf bytes.Buffer
	io.Copy(&buf, r)

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if !bytes.Contains(buf.Bytes(), []byte("RESOLUTION ABSTAINED")) {
		t.Error("expected output to contain 'RESOLUTION ABSTAINED'")
	}
}

func TestConsoleStorage_Close(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	storage := NewConsoleStorage(logger)

	if err := storage.Close(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestPostgresStorage_RecordSubmission(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}
	defer db.Close()

	logger, _ := zap.NewDevelopment()
	storage := &PostgresStorage{db: db, logger: logger}

	rec := testRecord(false)

	mock.ExpectExec("INSERT INTO resolution_submissions").
		WithArgs(
			rec.ID,
			rec.MarketID,
			rec.Question,
			string(rec.Domain),
			rec.Answer,
			rec.Confidence,
			rec.Explanation,
			rec.Abstained,
			rec.TxHash,
			rec.EvidenceURI,
			rec.SubmittedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = storage.RecordSubmission(context.Background(), rec)
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestPostgresStorage_RecordSubmissionError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}
	defer db.Close()

	logger, _ := zap.NewDevelopment()
	storage := &PostgresStorage{db: db, logger: logger}

	mock.ExpectExec("INSERT INTO resolution_submissions").
		WillReturnError(io.ErrUnexpectedEOF)

	err = storage.RecordSubmission(context.Background(), testRecord(false))
	if err == nil {
		t.Error("expected an error")
	}
}

func TestPostgresStorage_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("create sqlmock: %v", err)
	}

	mock.ExpectClose()

	logger, _ := zap.NewDevelopment()
	storage := &PostgresStorage{db: db, logger: logger}

	if err := storage.Close(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}
