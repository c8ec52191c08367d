package sxdbf

import (
	"fmt"

	"github.com/pkg/errors"

	"sxtool/sxdbf/dcodepage"
	"sxtool/sxdbf/dheader"
	"sxtool/sxdbf/drecord"
	"sxtool/sxdbf/sxcrypt"
	"sxtool/sxdbf/sxkey"
)

// Transform runs the whole pipeline over one table file image: parse
// the header, carve out the record payload, run it through the SIX
// cipher in the requested direction, patch the payload and the status
// byte back in, and optionally decode the records of the resulting
// plain payload. Header level problems abort with no output buffer.
func Transform(fileBytes []byte, key sxkey.Key, mode Mode, decodeRecords bool) (*Result, error) {
	buffer := make([]byte, len(fileBytes))
	copy(buffer, fileBytes)

	header, fields, err := dheader.Decode(buffer)
	if err != nil {
		return nil, errors.Wrap(err, "Transform error")
	}

	result := Result{
		Header: header,
		Fields: fields,
	}
	switch mode {
	case ModeDecrypt:
		buffer, err = decrypt(buffer, key, &result)
	case ModeEncrypt:
		buffer, err = encrypt(buffer, key, &result)
	default:
		return nil, errors.Errorf(`Transform error: unknown mode "%s"`, mode)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Transform error")
	}
	result.Bytes = buffer

	if decodeRecords && mode == ModeDecrypt {
		payload, err := dheader.PayloadSlice(buffer, *header)
		if err != nil {
			return nil, errors.Wrap(err, "Transform error")
		}
		decoder := dcodepage.DecoderFor(header.LanguageDriver)
		records, err := drecord.DecodeAll(payload, *header, fields, decoder)
		if err != nil {
			return nil, errors.Wrap(err, "Transform error")
		}
		result.Records = records
	}

	return &result, nil
}

func decrypt(buffer []byte, key sxkey.Key, result *Result) ([]byte, error) {
	header := result.Header
	switch header.StatusByte {
	case dheader.StatusEncrypted:
		payload, err := dheader.PayloadSlice(buffer, *header)
		if err != nil {
			return nil, errors.Wrap(err, "decrypt error")
		}
		plain := sxcrypt.Decrypt(key, payload)
		buffer, err = dheader.ReplacePayload(buffer, plain, *header)
		if err != nil {
			return nil, errors.Wrap(err, "decrypt error")
		}
		dheader.PatchStatusByte(buffer, dheader.StatusPlain)
		header.StatusByte = dheader.StatusPlain
		result.Status = fmt.Sprintf("decrypted %d records", header.RecordCount)
	case dheader.StatusPlain:
		// no cipher run; the buffer passes through untouched
		if _, err := dheader.PayloadSlice(buffer, *header); err != nil {
			return nil, errors.Wrap(err, "decrypt error")
		}
		result.Status = "already plain"
	default:
		// unknown status bytes are preserved, not interpreted
		if _, err := dheader.PayloadSlice(buffer, *header); err != nil {
			return nil, errors.Wrap(err, "decrypt error")
		}
		result.Status = fmt.Sprintf("status byte 0x%02X is not SX encrypted, passing through", header.StatusByte)
	}
	return buffer, nil
}

func encrypt(buffer []byte, key sxkey.Key, result *Result) ([]byte, error) {
	header := result.Header
	payload, err := dheader.PayloadSlice(buffer, *header)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt error")
	}
	ciphered := sxcrypt.Encrypt(key, payload)
	buffer, err = dheader.ReplacePayload(buffer, ciphered, *header)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt error")
	}
	dheader.PatchStatusByte(buffer, dheader.StatusEncrypted)
	header.StatusByte = dheader.StatusEncrypted
	result.Status = fmt.Sprintf("encrypted %d records", header.RecordCount)
	return buffer, nil
}
