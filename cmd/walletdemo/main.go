package main

import "github.com/vietddude/walletdemo/internal/cli"

func main() {
	cli.Execute()
}
