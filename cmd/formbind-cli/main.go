// Command formbind-cli runs a terminal session for a declared form: it loads
// the form definitions from a directory, prompts the chosen form's fields,
// and prints the collected values as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-formbind/pkg/formdef"
	"github.com/goliatone/go-formbind/pkg/promptflow"
)

func main() {
	defs := flag.String("defs", "forms", "directory holding form definitions (yaml/json)")
	formID := flag.String("form", "", "form id to run")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	registry, err := formdef.LoadFS(os.DirFS(*defs))
	if err != nil {
		log.Fatalf("load definitions: %v", err)
	}

	if *formID == "" {
		fmt.Fprintf(os.Stderr, "available forms: %s\n", strings.Join(registry.IDs(), ", "))
		os.Exit(2)
	}

	desc, ok := registry.Form(*formID)
	if !ok {
		log.Fatalf("unknown form %q (available: %s)", *formID, strings.Join(registry.IDs(), ", "))
	}

	flow := promptflow.Flow(desc)
	record, err := flow.Create(context.Background())
	if err != nil {
		log.Fatalf("session failed: %v", err)
	}
	if record == nil {
		fmt.Fprintln(os.Stderr, "cancelled")
		os.Exit(1)
	}

	payload, err := json.MarshalIndent(record.Values, "", "  ")
	if err != nil {
		log.Fatalf("encode values: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("write output: %v", err)
		}
		fmt.Printf("Values written to %s\n", *output)
		return
	}
	fmt.Println(string(payload))
}
