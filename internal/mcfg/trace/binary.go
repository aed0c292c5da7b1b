package trace

import (
	"encoding"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// This file contains the binary encoding used to persist a Trace to the
// history store, in the same hand-rolled length-prefixed shape the teacher
// uses for its AST/token types: ints take a fixed 8 bytes, strings are
// preceded by their rune count, slices by their element count, and nested
// BinaryMarshaler values by their encoded byte count, so those can be read
// back without knowing their shape in advance.

func encBinaryBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

func decBinaryBool(data []byte) (bool, int, error) {
	if len(data) < 1 {
		return false, 0, fmt.Errorf("unexpected end of data")
	}
	switch data[0] {
	case 0:
		return false, 1, nil
	case 1:
		return true, 1, nil
	default:
		return false, 0, fmt.Errorf("unknown non-bool value")
	}
}

func encBinaryInt(i int) []byte {
	enc := make([]byte, 8)
	enc = binary.AppendVarint(enc[:0], int64(i))
	for len(enc) < 8 {
		enc = append(enc, 0)
	}
	return enc
}

// always reads exactly 8 bytes.
func decBinaryInt(data []byte) (int, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("data does not contain 8 bytes")
	}
	val, read := binary.Varint(data[:8])
	if read == 0 {
		return 0, 0, fmt.Errorf("input buffer too small, should never happen")
	} else if read < 0 {
		return 0, 0, fmt.Errorf("input buffer contains value larger than 64 bits, should never happen")
	}
	return int(val), 8, nil
}

func encBinaryString(s string) []byte {
	enc := make([]byte, 0, len(s))
	chCount := 0
	for _, ch := range s {
		chBuf := make([]byte, utf8.UTFMax)
		byteLen := utf8.EncodeRune(chBuf, ch)
		enc = append(enc, chBuf[:byteLen]...)
		chCount++
	}
	return append(encBinaryInt(chCount), enc...)
}

// returns the string followed by bytes consumed.
func decBinaryString(data []byte) (string, int, error) {
	if len(data) < 8 {
		return "", 0, fmt.Errorf("unexpected end of data")
	}
	runeCount, _, err := decBinaryInt(data)
	if err != nil {
		return "", 0, fmt.Errorf("decoding string rune count: %w", err)
	}
	data = data[8:]
	if runeCount < 0 {
		return "", 0, fmt.Errorf("string rune count < 0")
	}

	readBytes := 8
	buf := make([]byte, 0, runeCount)
	for i := 0; i < runeCount; i++ {
		ch, bytesRead := utf8.DecodeRune(data)
		if ch == utf8.RuneError {
			if bytesRead == 0 {
				return "", 0, fmt.Errorf("unexpected end of data in string")
			} else if bytesRead == 1 {
				return "", 0, fmt.Errorf("invalid UTF-8 encoding in string")
			}
			return "", 0, fmt.Errorf("invalid unicode replacement character in rune")
		}
		chBuf := make([]byte, utf8.UTFMax)
		n := utf8.EncodeRune(chBuf, ch)
		buf = append(buf, chBuf[:n]...)
		readBytes += bytesRead
		data = data[bytesRead:]
	}

	return string(buf), readBytes, nil
}

func encBinaryIntSlice(sl []int) []byte {
	data := encBinaryInt(len(sl))
	for _, v := range sl {
		data = append(data, encBinaryInt(v)...)
	}
	return data
}

func decBinaryIntSlice(data []byte) ([]int, int, error) {
	count, readBytes, err := decBinaryInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding int slice count: %w", err)
	}
	data = data[readBytes:]

	var sl []int
	if count > 0 {
		sl = make([]int, count)
	}
	for i := 0; i < count; i++ {
		v, n, err := decBinaryInt(data)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding int slice element %d: %w", i, err)
		}
		sl[i] = v
		data = data[n:]
		readBytes += n
	}
	return sl, readBytes, nil
}

func encBinaryStringSlice(sl []string) []byte {
	data := encBinaryInt(len(sl))
	for _, s := range sl {
		data = append(data, encBinaryString(s)...)
	}
	return data
}

func decBinaryStringSlice(data []byte) ([]string, int, error) {
	count, readBytes, err := decBinaryInt(data)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding string slice count: %w", err)
	}
	data = data[readBytes:]

	var sl []string
	if count > 0 {
		sl = make([]string, count)
	}
	for i := 0; i < count; i++ {
		s, n, err := decBinaryString(data)
		if err != nil {
			return nil, 0, fmt.Errorf("decoding string slice element %d: %w", i, err)
		}
		sl[i] = s
		data = data[n:]
		readBytes += n
	}
	return sl, readBytes, nil
}

// encBinary length-prefixes a nested BinaryMarshaler value's own encoding, so
// decBinary can read it back without knowing its shape ahead of time.
func encBinary(b encoding.BinaryMarshaler) []byte {
	enc, _ := b.MarshalBinary()
	return append(encBinaryInt(len(enc)), enc...)
}

func decBinary(data []byte, b encoding.BinaryUnmarshaler) (int, error) {
	byteLen, readBytes, err := decBinaryInt(data)
	if err != nil {
		return 0, err
	}
	data = data[readBytes:]

	if len(data) < byteLen {
		return 0, fmt.Errorf("unexpected end of data")
	}
	if err := b.UnmarshalBinary(data[:byteLen]); err != nil {
		return 0, err
	}
	return byteLen + readBytes, nil
}
