package fixture

import (
	"io"
	"net/http"
	"net/url"
	"testing"
)

// BenchmarkDeriveKey measures query normalization and hashing.
func BenchmarkDeriveKey(b *testing.B) {
	u, _ := url.Parse("https://api.example.com/v1/geo/search?q=paris&limit=10&Offset=20&apikey=s3cr3t&lang=fr")
	filter := DefaultCallbacks().FilterParameter

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = DeriveKey(u, http.MethodGet, filter, nil)
	}
}

// BenchmarkReplay measures serving a stored fixture through the transport.
func BenchmarkReplay(b *testing.B) {
	store := helloStore(b)
	tr, err := NewTransport(Options{Mode: ModeReplay, Store: store})
	if err != nil {
		b.Fatal(err)
	}
	client := tr.Client()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		resp, err := client.Get("https://www.example.com/HelloWorldService")
		if err != nil {
			b.Fatalf("Request failed: %v", err)
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}

// BenchmarkReplayParallel measures concurrent replay of one fixture.
func BenchmarkReplayParallel(b *testing.B) {
	store := helloStore(b)
	tr, err := NewTransport(Options{Mode: ModeReplay, Store: store})
	if err != nil {
		b.Fatal(err)
	}
	client := tr.Client()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			resp, err := client.Get("https://www.example.com/HelloWorldService?lang=en")
			if err != nil {
				b.Errorf("Request failed: %v", err)
				return
			}
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}
	})
}
