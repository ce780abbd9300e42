// Command fhirpath evaluates a FHIRPath expression against a JSON
// document and prints the result as JSON.
//
// Usage:
//
//	fhirpath <expression> <document.json>
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/emberhealth/fhirpath"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "usage: %s <expression> <document.json>\n", os.Args[0])
		os.Exit(1)
	}

	doc, err := os.ReadFile(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	result, err := fhirpath.EvaluateBytes(os.Args[1], doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
