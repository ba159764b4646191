// Package config provides configuration parsing for the reactor CLI.
//
// The configuration is stored in reactor.yaml. Every field is optional;
// missing fields keep the defaults returned by New.
//
// # Configuration File Structure
//
//	inspect:
//	  addr: localhost:7070
//	  tick: 500ms
//	  allowedOrigins: ["http://localhost:3000"]
//	metrics:
//	  enabled: true
//	  namespace: reactor
//	tracing:
//	  enabled: false
//	log:
//	  level: debug
//	  format: json
//
// # Usage
//
//	cfg, err := config.LoadFile("reactor.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//
//	logger := cfg.Log.NewLogger(os.Stderr)
package config
