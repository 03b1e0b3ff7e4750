// Package fixturetest provides a testing helper for recording and replaying
// HTTP fixtures in Go tests.
//
// # Basic Usage
//
// Create a recorder bound to the test and hand its client to the code
// under test:
//
//	func TestGeocode(t *testing.T) {
//	    rec := fixturetest.New(t)
//
//	    client := geo.NewClient(rec.Client())
//	    place, err := client.Lookup("55116")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//
//	    rec.AssertCalledTimes(t, "GET", "/geocode", 1)
//	    rec.AssertAllFromFixtures(t)
//	}
//
// Fixtures are read from testdata/fixtures. The mode defaults to replay
// and can be changed per run without editing tests:
//
//	HTTPFIXTURE_MODE=capture go test ./...
//
// # Options
//
//	rec := fixturetest.New(t,
//	    fixturetest.WithMode(fixture.ModeAutomatic),
//	    fixturetest.WithDir("testdata/geo"),
//	    fixturetest.WithCallbacks(fixture.NewCallbacks(fixture.CallbackOptions{
//	        FilterCommonSensitiveValues: true,
//	        ExtraParameters:             []string{"session"},
//	    })),
//	)
//
// # Assertions
//
//	rec.AssertCalled(t, "GET", "/users/{id}")
//	rec.AssertNotCalled(t, "DELETE", "/users/{id}")
//	for _, req := range rec.Requests() {
//	    req.AssertFromFixture(t)
//	}
package fixturetest
