package geoip

import (
	"errors"
	"net"
	"testing"

	"github.com/oschwald/geoip2-golang"
)

type fakeReader struct {
	codes  map[string]string
	calls  int
	closed bool
}

func (f *fakeReader) Country(ip net.IP) (*geoip2.Country, error) {
	f.calls++
	code, ok := f.codes[ip.String()]
	if !ok {
		return nil, errors.New("not found")
	}
	rec := &geoip2.Country{}
	rec.Country.IsoCode = code
	return rec, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestNewResolverEmptyPath(t *testing.T) {
	r, err := NewResolver("  ")
	if err != nil || r != nil {
		t.Fatalf("NewResolver(empty) = %v, %v", r, err)
	}
	if _, err := r.CountryCode("8.8.8.8"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("nil resolver err = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("nil Close: %v", err)
	}
}

func TestNewResolverOpenError(t *testing.T) {
	orig := openReader
	t.Cleanup(func() { openReader = orig })
	openReader = func(string) (countryReader, error) { return nil, errors.New("missing file") }

	if _, err := NewResolver("/nope.mmdb"); err == nil {
		t.Fatalf("expected open error")
	}
}

func TestCountryCode(t *testing.T) {
	fake := &fakeReader{codes: map[string]string{"200.147.67.142": "br"}}
	r := &Resolver{reader: fake}

	tests := []struct {
		ip      string
		want    string
		wantErr bool
	}{
		{ip: "200.147.67.142", want: "BR"},
		{ip: "127.0.0.1", want: ""},
		{ip: "10.1.2.3", want: ""},
		{ip: "not-an-ip", wantErr: true},
		{ip: "1.1.1.1", wantErr: true},
	}
	for _, tc := range tests {
		got, err := r.CountryCode(tc.ip)
		if (err != nil) != tc.wantErr {
			t.Fatalf("CountryCode(%q) err = %v", tc.ip, err)
		}
		if got != tc.want {
			t.Fatalf("CountryCode(%q) = %q, want %q", tc.ip, got, tc.want)
		}
	}
	if fake.calls != 2 {
		t.Fatalf("private addresses must not hit the database, calls = %d", fake.calls)
	}
	if err := r.Close(); err != nil || !fake.closed {
		t.Fatalf("Close: %v closed=%v", err, fake.closed)
	}
}
