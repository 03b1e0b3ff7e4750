// Package config loads fixture transport settings from YAML or JSON files.
//
// A configuration names the operating mode, the store holding the
// fixtures, the callback policy applied around storage and the logger:
//
//	mode: automatic
//	store:
//	  kind: file
//	  path: testdata/fixtures
//	callbacks:
//	  filterParameters: [session]
//	  filterExpression: 'name startsWith "utm_"'
//	  redactPaths: ["$.token"]
//	logging:
//	  level: debug
//
// HTTPFIXTURE_MODE and HTTPFIXTURE_DIR override the mode and the store
// path when Load is used:
//
//	cfg, err := config.Load("httpfixture.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tr, err := cfg.NewTransport(nil, cfg.Logger(os.Stderr))
package config
