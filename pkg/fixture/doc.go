// Package fixture records HTTP interactions to storage and replays them.
//
// The Transport is an http.RoundTripper. For each outbound request it
// derives a deterministic key from the method, host, path and a
// normalized, filtered query string, then either serves a stored fixture,
// captures a live response for later reuse, or passes the request through,
// depending on its Mode:
//
//	ModeOnline     pass through, storage untouched
//	ModeCapture    live call, persist, then serve the stored copy
//	ModeReplay     storage only; a miss is a synthesized 404
//	ModeAutomatic  replay when a fixture exists, capture otherwise
//
// Fixtures are laid out as
//
//	<host>/<path-segments>/<METHOD>.<sha1>.response.json
//	<host>/<path-segments>/<METHOD>.<sha1>.content.<ext>
//	<host>/<path-segments>/<METHOD>.response.json
//	<host>/<path-segments>/<METHOD>.content.json
//
// where the hashed names match one exact query and the method-only names act
// as the default for any query on that path. Every response served from
// storage carries the X-From-Fixture marker header.
//
// # Usage
//
//	store, _ := resource.NewFileStore("testdata/fixtures")
//	tr, err := fixture.NewTransport(fixture.Options{
//	    Mode:  fixture.ModeAutomatic,
//	    Store: store,
//	})
//	if err != nil {
//	    return err
//	}
//	client := tr.Client()
package fixture
