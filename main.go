package main

import "github.com/janghjun/healthlog/cmd/healthlog"

func main() {
	healthlog.Execute()
}
