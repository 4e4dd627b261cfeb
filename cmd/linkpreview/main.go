// Package main provides the linkpreview command.
//
// Usage:
//
//	linkpreview fetch <url>
//	linkpreview serve
package main

func main() {
	Execute()
}
