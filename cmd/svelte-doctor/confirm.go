package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// confirmFixes asks once; only y/yes proceeds.
func confirmFixes(in io.Reader, out io.Writer, fixable int) bool {
	fmt.Fprintf(out, "Found %d fixable issue(s). Apply fixes? (y/N) ", fixable)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
