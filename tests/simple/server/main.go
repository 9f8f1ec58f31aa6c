// A minimal rewrite service over the registry in ../registry, for manual
// testing:
//
//	go run ./tests/simple/server
//	curl -s localhost:8080 -d '{"query":"{ excerpt @computed(type: \"Post\") }"}'
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/hanpama/queryweave/internal/eventbus"
	"github.com/hanpama/queryweave/internal/registry"
	"github.com/hanpama/queryweave/internal/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	root := flag.String("registry", "tests/simple/registry", "registry root")
	flag.Parse()

	eventbus.Use(eventbus.New())

	reg, err := registry.Load(*root)
	if err != nil {
		log.Fatal(err)
	}
	handler, err := server.New(reg, server.WithPretty())
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("rewrite service on %s (registry: %s)", *addr, *root)
	log.Fatal(http.ListenAndServe(*addr, handler))
}
