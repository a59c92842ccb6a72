package main

import (
	"github.com/sivavenkatesh08/rag-mnc-insights/internal/cli"
)

func main() {
	cli.Execute()
}
