// File: internal/infra/security/record_signer.go
package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"fedup-chat/internal/domain"
	"fedup-chat/internal/domain/model"
)

// RecordSigner authenticates the demo-mode device record. The record travels
// through the client as base64(JSON{messages, isLocked, signature}) where the
// signature is HMAC-SHA256 over the canonical {messages, isLocked} payload.
// A record whose signature does not validate is discarded; the caller locks
// the session rather than trusting any part of it.
type RecordSigner struct {
	key []byte
}

func NewRecordSigner(secret string) (*RecordSigner, error) {
	if len(secret) < 16 {
		return nil, errors.New("demo record secret must be at least 16 bytes")
	}
	return &RecordSigner{key: []byte(secret)}, nil
}

// signedRecord is the wire layout of the encoded blob.
type signedRecord struct {
	Messages  []model.Message `json:"messages"`
	IsLocked  bool            `json:"isLocked"`
	Signature string          `json:"signature"`
}

func (s *RecordSigner) sign(messages []model.Message, isLocked bool) (string, error) {
	payload, err := json.Marshal(struct {
		Messages []model.Message `json:"messages"`
		IsLocked bool            `json:"isLocked"`
	}{Messages: messages, IsLocked: isLocked})
	if err != nil {
		return "", fmt.Errorf("canonical payload: %w", err)
	}
	mac := hmac.New(sha256.New, s.key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Encode signs the session and packs it into the opaque blob handed back to
// the device. Tampered sessions are refused: re-signing one would launder
// forged content under a fresh valid signature.
func (s *RecordSigner) Encode(sess *model.DemoSession) (string, error) {
	if sess.Tampered {
		return "", domain.ErrTampered
	}
	sig, err := s.sign(sess.Messages, sess.IsLocked)
	if err != nil {
		return "", err
	}
	blob, err := json.Marshal(signedRecord{
		Messages:  sess.Messages,
		IsLocked:  sess.IsLocked,
		Signature: sig,
	})
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	return base64.StdEncoding.EncodeToString(blob), nil
}

// Decode unpacks and verifies a device record. Any decoding or signature
// failure yields domain.ErrTampered; callers must respond with a wiped,
// locked session, never with partial content.
func (s *RecordSigner) Decode(raw string) (*model.DemoSession, error) {
	blob, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, domain.ErrTampered
	}
	var rec signedRecord
	if err := json.Unmarshal(blob, &rec); err != nil {
		return nil, domain.ErrTampered
	}
	want, err := s.sign(rec.Messages, rec.IsLocked)
	if err != nil {
		return nil, domain.ErrTampered
	}
	if !hmac.Equal([]byte(want), []byte(rec.Signature)) {
		return nil, domain.ErrTampered
	}
	return &model.DemoSession{Messages: rec.Messages, IsLocked: rec.IsLocked}, nil
}
