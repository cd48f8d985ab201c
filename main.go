package main

import "github.com/shouni/go-mlb-exact/cmd"

func main() {
	cmd.Execute()
}
