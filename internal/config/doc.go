// Package config provides configuration parsing for vtree tools.
//
// The configuration is stored in vtree.yaml. This package handles loading,
// saving, and validating it.
//
// # Configuration File Structure
//
//	tree:
//	  defaultKey: vtree-root
//	  keyStrategy: fixed   # or uuid
//	log:
//	  level: info
//	  format: text         # or json
//	metrics:
//	  enabled: true
//	  namespace: vtree
//	tracing:
//	  enabled: false
//	  tracerName: vtree
//	inspector:
//	  addr: localhost:7070
//	scene:
//	  region: us-east-1
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r := vtree.New(renderer, cfg.TreeOptions()...)
package config
