// Package main provides the docscrape command line tool.
package main

func main() {
	Execute()
}
