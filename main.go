package main

import "github.com/predico/oracle-pipeline/cmd"

func main() {
	cmd.Execute()
}
