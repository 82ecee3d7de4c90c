// Package ntp performs one-shot NTP v4 queries against the public pool
// servers, continent by continent.
//
// This is deliberately not a time-synchronization client: there is no
// polling, no filtering, no clock discipline. One UDP request goes out,
// one response comes back, and the caller picks which of the four protocol
// timestamps answers its question:
//
//	client-sent      T1: when the request left this host
//	server-received  T2: when the server received it
//	server-sent      T3: when the reply left the server
//	client-received  T4: when the reply arrived back here
//
// A failed or hung exchange propagates to the caller; the only mitigation
// offered is an explicit socket deadline.
package ntp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/suretime/suretime/pkg/clock"
)

// ErrUnknownContinent is returned for a continent keyword outside the
// pool.ntp.org zones.
var ErrUnknownContinent = errors.New("unknown NTP continent")

// continents are the geographic pool.ntp.org zones.
var continents = map[string]bool{
	"antarctica":    true,
	"asia":          true,
	"europe":        true,
	"north-america": true,
	"oceania":       true,
	"south-america": true,
}

// Continent normalizes a continent keyword (case, spaces and underscores
// are insignificant) and validates it against the known pool zones.
func Continent(name string) (string, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, " ", "-")
	n = strings.ReplaceAll(n, "_", "-")
	if !continents[n] {
		known := make([]string, 0, len(continents))
		for k := range continents {
			known = append(known, k)
		}
		sort.Strings(known)
		return "", fmt.Errorf("%w %q (allowed: %s)", ErrUnknownContinent, name, strings.Join(known, ", "))
	}
	return n, nil
}

// PoolServer resolves a continent keyword to its pool hostname.
func PoolServer(continent string) (string, error) {
	c, err := Continent(continent)
	if err != nil {
		return "", err
	}
	return c + ".pool.ntp.org", nil
}

// Kind selects one of the four protocol timestamps.
type Kind string

const (
	ClientSent     Kind = "client-sent"
	ServerReceived Kind = "server-received"
	ServerSent     Kind = "server-sent"
	ClientReceived Kind = "client-received"
)

// ParseKind normalizes a timestamp-field name: case, spaces, underscores
// and dashes are insignificant.
func ParseKind(s string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.ReplaceAll(n, "_", "-")
	n = strings.ReplaceAll(n, " ", "-")
	switch Kind(n) {
	case ClientSent, ServerReceived, ServerSent, ClientReceived:
		return Kind(n), nil
	}
	return "", fmt.Errorf("unknown NTP timestamp kind %q", s)
}

// Response is one decoded NTP v4 exchange. All timestamps are integer
// nanoseconds since the Unix epoch.
type Response struct {
	Server         string        `json:"server"`
	Stratum        uint8         `json:"stratum"`
	Precision      int8          `json:"precision"` // log2 seconds
	RootDelay      time.Duration `json:"root_delay"`
	RootDispersion time.Duration `json:"root_dispersion"`
	ClientSent     int64         `json:"client_sent"`
	ServerReceived int64         `json:"server_received"`
	ServerSent     int64         `json:"server_sent"`
	ClientReceived int64         `json:"client_received"`
}

// RoundTrip is the full request/response latency seen by the client.
func (r Response) RoundTrip() time.Duration {
	return time.Duration(r.ClientReceived - r.ClientSent)
}

// Timestamp returns the field selected by kind.
func (r Response) Timestamp(kind Kind) (int64, error) {
	switch kind {
	case ClientSent:
		return r.ClientSent, nil
	case ServerReceived:
		return r.ServerReceived, nil
	case ServerSent:
		return r.ServerSent, nil
	case ClientReceived:
		return r.ClientReceived, nil
	}
	return 0, fmt.Errorf("unknown NTP timestamp kind %q", string(kind))
}

// Query issues a single NTP v4 request to the continent's pool server.
// A zero timeout means no deadline: the call blocks until the kernel
// gives up, exactly like the system it replaces.
func Query(continent string, timeout time.Duration) (*Response, error) {
	server, err := PoolServer(continent)
	if err != nil {
		return nil, err
	}
	return QueryServer(server, timeout)
}

// QueryServer issues a single NTP v4 request to an explicit host.
func QueryServer(server string, timeout time.Duration) (*Response, error) {
	conn, err := net.Dial("udp", net.JoinHostPort(server, "123"))
	if err != nil {
		return nil, fmt.Errorf("ntp dial %s: %w", server, err)
	}
	defer conn.Close()
	if timeout > 0 {
		if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
			return nil, fmt.Errorf("ntp deadline: %w", err)
		}
	}

	req := make([]byte, packetSize)
	req[0] = 0x23 // LI=0, VN=4, Mode=3 (client)
	t1 := time.Now()
	binary.BigEndian.PutUint64(req[40:48], toNTPTime(t1))
	if _, err := conn.Write(req); err != nil {
		return nil, fmt.Errorf("ntp send %s: %w", server, err)
	}

	resp := make([]byte, packetSize)
	n, err := conn.Read(resp)
	if err != nil {
		return nil, fmt.Errorf("ntp receive %s: %w", server, err)
	}
	t4 := time.Now()
	return decodePacket(server, resp[:n], t4)
}

const packetSize = 48

// ntpEpochOffset is the number of seconds between the NTP era origin
// (1900-01-01) and the Unix epoch (1970-01-01).
const ntpEpochOffset = 2208988800

// decodePacket validates the header and extracts the timestamp fields.
// t4 is the client receive time, sampled by the caller as close to the
// socket read as possible.
func decodePacket(server string, pkt []byte, t4 time.Time) (*Response, error) {
	if len(pkt) < packetSize {
		return nil, fmt.Errorf("ntp response from %s truncated to %d bytes", server, len(pkt))
	}
	mode := pkt[0] & 0x07
	if mode != 4 { // server
		return nil, fmt.Errorf("ntp response from %s has mode %d, want 4", server, mode)
	}
	stratum := pkt[1]
	if stratum == 0 {
		return nil, fmt.Errorf("ntp kiss-of-death from %s", server)
	}
	return &Response{
		Server:         server,
		Stratum:        stratum,
		Precision:      int8(pkt[3]),
		RootDelay:      fixed1616Duration(binary.BigEndian.Uint32(pkt[4:8])),
		RootDispersion: fixed1616Duration(binary.BigEndian.Uint32(pkt[8:12])),
		ClientSent:     fromNTPTime(binary.BigEndian.Uint64(pkt[24:32])),
		ServerReceived: fromNTPTime(binary.BigEndian.Uint64(pkt[32:40])),
		ServerSent:     fromNTPTime(binary.BigEndian.Uint64(pkt[40:48])),
		ClientReceived: t4.UnixNano(),
	}, nil
}

// Clock performs one query and wraps the selected timestamp field in a
// clock sample whose descriptor records the network provenance. Samples
// are only comparable to other samples from the same server and kind.
func Clock(continent string, kind Kind, timeout time.Duration) (clock.Time, error) {
	resp, err := Query(continent, timeout)
	if err != nil {
		return clock.Time{}, err
	}
	return resp.Clock(kind)
}

// Clock wraps the selected timestamp field of an already-performed
// exchange in a clock sample.
func (r Response) Clock(kind Kind) (clock.Time, error) {
	nanos, err := r.Timestamp(kind)
	if err != nil {
		return clock.Time{}, err
	}
	d := clock.Descriptor{
		Name:            r.Server + ":" + string(kind),
		ClockID:         clock.NoClockID,
		Adjustable:      true,
		Implementation:  fmt.Sprintf("ntp:%d", r.Stratum),
		Monotonic:       false,
		ResolutionNanos: precisionNanos(r.Precision),
		IsNTP:           true,
		Server:          r.Server,
		IsEpoch:         true,
	}
	return clock.Time{Nanos: nanos, Clock: d}, nil
}

// fromNTPTime converts a 64-bit NTP timestamp (32.32 fixed point seconds
// since 1900) to Unix nanoseconds. The fractional part is scaled by 1e9
/// with half-down rounding: a remainder of exactly one half rounds toward
// zero.
func fromNTPTime(ts uint64) int64 {
	sec := int64(ts>>32) - ntpEpochOffset
	frac := ts & 0xFFFFFFFF
	num := frac * 1e9
	nanos := int64(num >> 32)
	if rem := num & 0xFFFFFFFF; rem > 1<<31 {
		nanos++
	}
	return sec*1e9 + nanos
}

// toNTPTime converts a wall-clock reading to a 64-bit NTP timestamp.
func toNTPTime(t time.Time) uint64 {
	nanos := t.UnixNano()
	sec := uint64(nanos/1e9 + ntpEpochOffset)
	frac := (uint64(nanos%1e9) << 32) / 1e9
	return sec<<32 | frac
}

// fixed1616Duration converts an NTP short (16.16 fixed point seconds)
// to a duration.
func fixed1616Duration(v uint32) time.Duration {
	return time.Duration((uint64(v) * 1e9) >> 16)
}

// precisionNanos converts a log2-seconds precision exponent to
// nanoseconds, clamped to >= 1ns for any sane exponent.
func precisionNanos(p int8) int64 {
	if p >= 0 {
		return int64(1) << uint(p) * 1e9
	}
	n := int64(1e9) >> uint(-p)
	if n < 1 {
		return 1
	}
	return n
}
