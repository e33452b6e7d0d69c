package provider

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mr-tron/base58"
)

// writeKeystore writes a Solana-CLI-format keypair file and returns its
// path and base58 address.
func writeKeystore(t *testing.T, dir string) (string, string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}

	ints := make([]int, len(priv))
	for i, b := range priv {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	path := filepath.Join(dir, "id.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path, base58.Encode(pub)
}

func TestOpenKeystore(t *testing.T) {
	path, addr := writeKeystore(t, t.TempDir())

	p, err := OpenKeystore(path)
	if err != nil {
		t.Fatalf("OpenKeystore: %v", err)
	}
	if p.Address() != addr {
		t.Errorf("Address() = %s, want %s", p.Address(), addr)
	}
}

func TestOpenKeystore_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "not json", content: "hello"},
		{name: "wrong length", content: "[1,2,3]"},
		{name: "byte out of range", content: jsonArray(64, 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "id.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if _, err := OpenKeystore(path); err == nil {
				t.Error("OpenKeystore accepted an invalid keystore")
			}
		})
	}
}

func jsonArray(n, value int) string {
	ints := make([]int, n)
	for i := range ints {
		ints[i] = value
	}
	data, _ := json.Marshal(ints)
	return string(data)
}

func TestConnectDisconnect(t *testing.T) {
	path, addr := writeKeystore(t, t.TempDir())
	p, err := OpenKeystore(path)
	if err != nil {
		t.Fatalf("OpenKeystore: %v", err)
	}
	ctx := context.Background()

	got, err := p.Connect(ctx, ConnectOptions{})
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got != addr {
		t.Errorf("Connect returned %s, want %s", got, addr)
	}

	if err := p.Disconnect(ctx); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if err := p.Disconnect(ctx); !errors.Is(err, ErrNotConnected) {
		t.Errorf("second Disconnect error = %v, want ErrNotConnected", err)
	}
}

func TestConnect_OnlyIfTrusted(t *testing.T) {
	path, _ := writeKeystore(t, t.TempDir())
	p, err := OpenKeystore(path)
	if err != nil {
		t.Fatalf("OpenKeystore: %v", err)
	}
	ctx := context.Background()

	if _, err := p.Connect(ctx, ConnectOptions{OnlyIfTrusted: true}); !errors.Is(err, ErrNotTrusted) {
		t.Fatalf("Connect error = %v, want ErrNotTrusted", err)
	}

	// Add the approval marker and retry
	if err := os.WriteFile(path+".trusted", nil, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := p.Connect(ctx, ConnectOptions{OnlyIfTrusted: true}); err != nil {
		t.Errorf("Connect with marker: %v", err)
	}
}

func TestDetect(t *testing.T) {
	path, addr := writeKeystore(t, t.TempDir())

	p, ok := Detect(context.Background(), DetectConfig{
		KeystorePath: path,
		Window:       100 * time.Millisecond,
		Interval:     10 * time.Millisecond,
	})
	if !ok {
		t.Fatal("Detect did not find the keystore")
	}
	ks, isKeystore := p.(*KeystoreProvider)
	if !isKeystore {
		t.Fatalf("Detect returned %T", p)
	}
	if ks.Address() != addr {
		t.Errorf("detected address = %s, want %s", ks.Address(), addr)
	}
}

func TestDetect_Absent(t *testing.T) {
	start := time.Now()
	_, ok := Detect(context.Background(), DetectConfig{
		KeystorePath: filepath.Join(t.TempDir(), "missing.json"),
		Window:       80 * time.Millisecond,
		Interval:     20 * time.Millisecond,
	})
	if ok {
		t.Fatal("Detect reported a provider for a missing keystore")
	}
	// Detection waits out the grace window before concluding absence.
	if time.Since(start) < 80*time.Millisecond {
		t.Error("Detect gave up before the grace window elapsed")
	}
}

func TestDetect_AppearsDuringWindow(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "id.json")

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	ints := make([]int, len(priv))
	for i, b := range priv {
		ints[i] = int(b)
	}
	data, err := json.Marshal(ints)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(target, data, 0o600)
	}()

	_, ok := Detect(context.Background(), DetectConfig{
		KeystorePath: target,
		Window:       2 * time.Second,
		Interval:     10 * time.Millisecond,
	})
	if !ok {
		t.Fatal("Detect missed a keystore that appeared during the grace window")
	}
}
