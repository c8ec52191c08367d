package sxdbf

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sxtool/sxdbf/dheader"
	"sxtool/sxdbf/drecord"
	"sxtool/sxdbf/sxcrypt"
	"sxtool/sxdbf/sxkey"
)

type EndToEndTestSuite struct {
	Key        sxkey.Key
	PlainBytes []byte
	R          *require.Assertions
	suite.Suite
}

type fixtureField struct {
	name     string
	typ      byte
	length   byte
	decimals byte
}

func buildTable(status byte, fields []fixtureField, rows [][]byte, languageDriver byte, eofMarker bool) []byte {
	headerLength := dheader.BaseSize + dheader.DescriptorSize*len(fields) + 1
	recordLength := 1 + lo.Reduce(
		fields,
		func(sum int, field fixtureField, _ int) int {
			return sum + int(field.length)
		},
		0,
	)
	bs := make([]byte, 0, headerLength+recordLength*len(rows)+1)
	base := make([]byte, dheader.BaseSize)
	base[0] = status
	base[1] = 24
	base[2] = 1
	base[3] = 31
	binary.LittleEndian.PutUint32(base[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint16(base[8:10], uint16(headerLength))
	binary.LittleEndian.PutUint16(base[10:12], uint16(recordLength))
	base[28] = 0x01
	base[29] = languageDriver
	bs = append(bs, base...)
	for _, field := range fields {
		descriptor := make([]byte, dheader.DescriptorSize)
		copy(descriptor[0:11], field.name)
		descriptor[11] = field.typ
		descriptor[16] = field.length
		descriptor[17] = field.decimals
		bs = append(bs, descriptor...)
	}
	bs = append(bs, dheader.Terminator)
	for _, row := range rows {
		bs = append(bs, row...)
	}
	if eofMarker {
		bs = append(bs, dheader.EOFMarker)
	}
	return bs
}

func (s *EndToEndTestSuite) SetupSuite() {
	s.R = s.Require()
	s.Key = sxkey.FromText("COMPANY1")
	fields := []fixtureField{
		{"NAME", 'C', 10, 0},
		{"AMOUNT", 'N', 8, 2},
		{"SINCE", 'D', 8, 0},
		{"ACTIVE", 'L', 1, 0},
	}
	rows := [][]byte{
		[]byte(" ACME LTD   1250.7519950704T"),
		[]byte("*GONE CORP     0.0020010101F"),
		[]byte(" LAST ONE     99.9920240131?"),
	}
	s.PlainBytes = buildTable(dheader.StatusPlain, fields, rows, 0x03, true)
}

// encryptedBytes builds the SX encrypted twin of PlainBytes the way
// the reference tools write it: ciphered payload, status byte 0x06,
// everything else untouched.
func (s *EndToEndTestSuite) encryptedBytes() []byte {
	header, _, err := dheader.Decode(s.PlainBytes)
	s.R.NoError(err)
	payload, err := dheader.PayloadSlice(s.PlainBytes, *header)
	s.R.NoError(err)
	bs, err := dheader.ReplacePayload(s.PlainBytes, sxcrypt.Encrypt(s.Key, payload), *header)
	s.R.NoError(err)
	dheader.PatchStatusByte(bs, dheader.StatusEncrypted)
	return bs
}

func (s *EndToEndTestSuite) TestDecryptEncryptRoundTrip() {
	encrypted := s.encryptedBytes()

	decrypted, err := Transform(encrypted, s.Key, ModeDecrypt, true)
	s.R.NoError(err)
	s.R.Equal(dheader.StatusPlain, decrypted.Bytes[0])
	s.R.Equal(s.PlainBytes, decrypted.Bytes)
	s.R.Contains(decrypted.Status, "decrypted 3 records")

	reencrypted, err := Transform(decrypted.Bytes, s.Key, ModeEncrypt, false)
	s.R.NoError(err)
	s.R.Equal(dheader.StatusEncrypted, reencrypted.Bytes[0])
	s.R.Equal(encrypted, reencrypted.Bytes)
	s.R.Nil(reencrypted.Records)
}

func (s *EndToEndTestSuite) TestDecryptedRecords() {
	decrypted, err := Transform(s.encryptedBytes(), s.Key, ModeDecrypt, true)
	s.R.NoError(err)
	s.R.Len(decrypted.Fields, 4)
	s.R.Len(decrypted.Records, 3)

	first := decrypted.Records[0]
	s.R.False(first.Deleted)
	s.R.Equal(
		[]drecord.FieldValue{
			{Name: "NAME", Value: drecord.Value{Type: drecord.DataTypeText, Data: "ACME LTD"}},
			{Name: "AMOUNT", Value: drecord.Value{Type: drecord.DataTypeDecimal, Data: 1250.75}},
			{Name: "SINCE", Value: drecord.Value{Type: drecord.DataTypeDate, Data: dheader.Date{Year: 1995, Month: 7, Day: 4}}},
			{Name: "ACTIVE", Value: drecord.Value{Type: drecord.DataTypeLogical, Data: true}},
		},
		first.Values,
	)
	s.R.True(decrypted.Records[1].Deleted)
	s.R.Nil(decrypted.Records[1].Values)
	s.R.Equal(
		drecord.Value{Type: drecord.DataTypeNone, Data: nil},
		decrypted.Records[2].Values[3].Value,
	)
}

func (s *EndToEndTestSuite) TestAlreadyPlain() {
	result, err := Transform(s.PlainBytes, s.Key, ModeDecrypt, true)
	s.R.NoError(err)
	s.R.Equal(s.PlainBytes, result.Bytes)
	s.R.Contains(result.Status, "already plain")
	s.R.Len(result.Records, 3)
}

func (s *EndToEndTestSuite) TestUnknownStatusPassesThrough() {
	bs := append([]byte{}, s.PlainBytes...)
	dheader.PatchStatusByte(bs, 0x83)
	result, err := Transform(bs, s.Key, ModeDecrypt, false)
	s.R.NoError(err)
	s.R.Equal(bs, result.Bytes)
	s.R.Equal(byte(0x83), result.Bytes[0])
	s.R.Contains(result.Status, "0x83")
}

func (s *EndToEndTestSuite) TestMalformedHeaderRejected() {
	_, err := Transform(make([]byte, 20), s.Key, ModeDecrypt, false)
	s.R.Error(err)
	var malformed dheader.ErrMalformed
	s.R.True(errors.As(err, &malformed))

	_, err = Transform(make([]byte, 20), s.Key, ModeEncrypt, false)
	s.R.Error(err)
	s.R.True(errors.As(err, &malformed))
}

func (s *EndToEndTestSuite) TestTruncatedPayloadRejected() {
	truncated := s.PlainBytes[:len(s.PlainBytes)-5]
	_, err := Transform(truncated, s.Key, ModeDecrypt, false)
	s.R.Error(err)
	var outOfRange dheader.ErrPayloadOutOfRange
	s.R.True(errors.As(err, &outOfRange))
}

func (s *EndToEndTestSuite) TestInputBufferNeverMutated() {
	encrypted := s.encryptedBytes()
	kept := append([]byte{}, encrypted...)
	result, err := Transform(encrypted, s.Key, ModeDecrypt, true)
	s.R.NoError(err)
	s.R.Equal(kept, encrypted)

	result.Bytes[0] = 0xFF
	s.R.Equal(kept, encrypted)
}

func (s *EndToEndTestSuite) TestEncryptStampsStatus() {
	result, err := Transform(s.PlainBytes, s.Key, ModeEncrypt, true)
	s.R.NoError(err)
	s.R.Equal(dheader.StatusEncrypted, result.Bytes[0])
	s.R.Equal(dheader.StatusEncrypted, result.Header.StatusByte)
	// record decoding is never run on the encrypt path
	s.R.Nil(result.Records)
	// only the status byte and the payload change
	s.R.Equal(s.PlainBytes[1:int(result.Header.HeaderLength)], result.Bytes[1:int(result.Header.HeaderLength)])
	s.R.Equal(s.PlainBytes[len(s.PlainBytes)-1], result.Bytes[len(result.Bytes)-1])
}

func (s *EndToEndTestSuite) TestWrongKeyStillRoundTrips() {
	encrypted := s.encryptedBytes()
	wrongKey := sxkey.FromText("WRONGKEY")
	garbled, err := Transform(encrypted, wrongKey, ModeDecrypt, false)
	s.R.NoError(err)
	s.R.NotEqual(s.PlainBytes, garbled.Bytes)

	restored, err := Transform(garbled.Bytes, wrongKey, ModeEncrypt, false)
	s.R.NoError(err)
	s.R.Equal(encrypted, restored.Bytes)
}

func TestEndToEnd(t *testing.T) {
	suite.Run(t, new(EndToEndTestSuite))
}
