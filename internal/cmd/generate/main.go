// Command generate writes the generated sources of this module.
//
// It is invoked through go:generate from the value package.
package main

import (
	"flag"
	"log"

	"github.com/damedic/tabular-toolbox-go/internal/generate"
)

func main() {
	out := flag.String("out", "type_gen.go", "output file for the value type tables")
	flag.Parse()

	log.Printf("generating value types into %s...", *out)
	f := generate.GenerateValueTypes(generate.ValueTypes)
	if err := f.Save(*out); err != nil {
		log.Fatal(err)
	}
	log.Println("done")
}
