// Command formbind-lint validates form definition directories: parse
// failures, duplicate or unnamed fields, unknown field types, and cascade
// references to undeclared or later-declared fields. It exits non-zero when
// any directory fails.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goliatone/go-formbind/pkg/formdef"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [dir ...]\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Validates every form definition (yaml/json) under each directory.")
		flag.PrintDefaults()
	}
	flag.Parse()

	dirs := flag.Args()
	if len(dirs) == 0 {
		dirs = []string{"forms"}
	}

	failed := 0
	for _, dir := range dirs {
		registry, err := formdef.LoadFS(os.DirFS(dir))
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", dir, err)
			failed++
			continue
		}
		ids := registry.IDs()
		fmt.Printf("ok   %s: %d form(s)", dir, len(ids))
		if len(ids) > 0 {
			fmt.Printf(" (%s)", strings.Join(ids, ", "))
		}
		fmt.Println()
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d director(ies) failed validation\n", failed, len(dirs))
		os.Exit(1)
	}
}
