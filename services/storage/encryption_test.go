package storage

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestEncryptFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "contrat.pdf")
	payload := []byte("CONTRAT DE BAIL COMMERCIAL\n\nEntre les soussignés...")
	if err := os.WriteFile(src, payload, 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	encPath, err := encryptFile(src, "cle-de-chiffrement")
	if err != nil {
		t.Fatalf("encryptFile failed: %v", err)
	}
	defer os.Remove(encPath)

	ciphertext, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("failed to read encrypted file: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("CONTRAT")) {
		t.Fatal("ciphertext contains plaintext")
	}

	plaintext, err := decryptData(ciphertext, "cle-de-chiffrement")
	if err != nil {
		t.Fatalf("decryptData failed: %v", err)
	}
	if !bytes.Equal(plaintext, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", plaintext, payload)
	}
}

func TestDecryptDataWrongKey(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.txt")
	if err := os.WriteFile(src, []byte("données confidentielles"), 0644); err != nil {
		t.Fatalf("failed to write source file: %v", err)
	}

	encPath, err := encryptFile(src, "bonne-cle")
	if err != nil {
		t.Fatalf("encryptFile failed: %v", err)
	}
	defer os.Remove(encPath)

	ciphertext, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("failed to read encrypted file: %v", err)
	}
	if _, err := decryptData(ciphertext, "mauvaise-cle"); err == nil {
		t.Fatal("decryptData succeeded with the wrong key")
	}
}

func TestDecryptDataTruncated(t *testing.T) {
	if _, err := decryptData([]byte{0x01, 0x02}, "cle"); err == nil {
		t.Fatal("decryptData accepted a blob shorter than the nonce")
	}
}
