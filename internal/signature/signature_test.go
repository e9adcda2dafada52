package signature

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "s3cr3t"

func verifierAt(now time.Time) *Verifier {
	v := New(secret)
	v.now = func() time.Time { return now }
	return v
}

func TestVerifyValidSignature(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("{}")
	sig := Compute(secret, ts, body)

	v := verifierAt(now)
	assert.True(t, v.Verify(body, ts, sig))
}

func TestVerifyRejectsEmptyInputs(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte("{}")
	sig := Compute(secret, ts, body)
	v := verifierAt(now)

	assert.False(t, v.Verify(nil, ts, sig))
	assert.False(t, v.Verify(body, "", sig))
	assert.False(t, v.Verify(body, ts, ""))

	empty := verifierAt(now)
	empty.secret = ""
	assert.False(t, empty.Verify(body, ts, sig))
}

func TestVerifyRejectsUnparsableTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	v := verifierAt(now)
	body := []byte("{}")
	assert.False(t, v.Verify(body, "not-a-number", Compute(secret, "not-a-number", body)))
}

func TestVerifyReplayWindow(t *testing.T) {
	signedAt := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(signedAt.Unix(), 10)
	body := []byte("{}")
	sig := Compute(secret, ts, body)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"fresh", signedAt, true},
		{"within window ahead", signedAt.Add(299 * time.Second), true},
		{"within window behind", signedAt.Add(-299 * time.Second), true},
		{"expired ahead", signedAt.Add(301 * time.Second), false},
		{"expired behind", signedAt.Add(-301 * time.Second), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := verifierAt(tc.now)
			assert.Equal(t, tc.want, v.Verify(body, ts, sig))
		})
	}
}

func TestVerifyTamperRejection(t *testing.T) {
	now := time.Unix(1700000000, 0)
	ts := strconv.FormatInt(now.Unix(), 10)
	body := []byte(`{"user":"U123"}`)
	sig := Compute(secret, ts, body)
	v := verifierAt(now)
	require.True(t, v.Verify(body, ts, sig))

	// Flip one byte of the body.
	tampered := append([]byte(nil), body...)
	tampered[3] ^= 0x01
	assert.False(t, v.Verify(tampered, ts, sig))

	// Shift the timestamp.
	assert.False(t, v.Verify(body, strconv.FormatInt(now.Unix()+1, 10), sig))

	// Change one hex character of the signature.
	bad := []byte(sig)
	last := bad[len(bad)-1]
	if last == 'a' {
		bad[len(bad)-1] = 'b'
	} else {
		bad[len(bad)-1] = 'a'
	}
	assert.False(t, v.Verify(body, ts, string(bad)))

	// Wrong length fails before the byte comparison.
	assert.False(t, v.Verify(body, ts, sig+"00"))
	assert.False(t, v.Verify(body, ts, sig[:len(sig)-2]))
}

func TestComputeShape(t *testing.T) {
	sig := Compute(secret, "1700000000", []byte("{}"))
	require.Len(t, sig, len("v0=")+64)
	assert.Equal(t, "v0=", sig[:3])
}
