package main

import "github.com/CBGROWTHOPS/content-mvp-sub000/internal/cli"

func main() {
	cli.Execute()
}
