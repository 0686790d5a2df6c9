package crypto

import (
	"strings"
	"testing"
)

func TestEncryptDecrypt(t *testing.T) {
	keysMap := map[string][]byte{
		"v1": make([]byte, 32),
	}
	plain := []byte("85073003361")
	cipher, nonce, err := Encrypt(plain, "v1", keysMap)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if len(cipher) == 0 || len(nonce) == 0 {
		t.Fatal("cipher and nonce must be non-empty")
	}
	dec, err := Decrypt(cipher, nonce, "v1", keysMap)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(dec) != string(plain) {
		t.Fatalf("decrypted %q != plain %q", dec, plain)
	}
}

func TestEncrypt_UnknownKeyVersion(t *testing.T) {
	if _, _, err := Encrypt([]byte("x"), "v9", map[string][]byte{}); err == nil {
		t.Error("expected error for unknown key version")
	}
}

func TestParseKeysEnv(t *testing.T) {
	// 32 bytes in base64 = 43 chars (no padding)
	key := strings.Repeat("A", 43)
	env := "v1:" + key
	m, err := ParseKeysEnv(env)
	if err != nil {
		t.Fatalf("ParseKeysEnv: %v", err)
	}
	if len(m["v1"]) != 32 {
		t.Fatalf("key length: %d", len(m["v1"]))
	}
	// legacy 44-char value with trailing "=" must also work
	envOld := "v1:" + key + "="
	mOld, err := ParseKeysEnv(envOld)
	if err != nil {
		t.Fatalf("ParseKeysEnv (44 chars): %v", err)
	}
	if len(mOld["v1"]) != 32 {
		t.Fatalf("key length (44 chars): %d", len(mOld["v1"]))
	}
	env2 := "v1:" + key + ", v2:" + strings.Repeat("B", 43)
	m2, err := ParseKeysEnv(env2)
	if err != nil {
		t.Fatalf("ParseKeysEnv multi: %v", err)
	}
	if len(m2["v1"]) != 32 || len(m2["v2"]) != 32 {
		t.Fatalf("multi key lengths: v1=%d v2=%d", len(m2["v1"]), len(m2["v2"]))
	}
}

func TestNormalizeNISS(t *testing.T) {
	if got := NormalizeNISS("85.07.30-033.61"); got != "85073003361" {
		t.Fatalf("NormalizeNISS: got %q", got)
	}
	if NISSHash("85073003361") == NISSHash("85073003362") {
		t.Error("different NISS must hash differently")
	}
}
