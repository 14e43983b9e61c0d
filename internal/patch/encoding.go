package patch

import (
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names, tried in this order against a file's raw bytes -- the
// same trial list and priority as the original tool's
// encodings = ['utf-8', 'utf-16', 'utf-16le', 'ascii', 'cp1252', 'iso-8859-1'].
const (
	EncodingUTF8      = "utf-8"
	EncodingUTF16     = "utf-16"
	EncodingUTF16LE   = "utf-16le"
	EncodingASCII     = "ascii"
	EncodingCP1252   = "cp1252"
	EncodingISO88591 = "iso-8859-1"
	defaultEncoding  = EncodingUTF8
)

var encodingTrialOrder = []string{
	EncodingUTF8, EncodingUTF16, EncodingUTF16LE, EncodingASCII, EncodingCP1252, EncodingISO88591,
}

// DecodeFile tries each candidate text encoding in turn and returns the
// decoded string along with the name of the encoding that worked, mirroring
// patch_edit's own read loop over encodings = [...]. An empty file decodes
// as "" under utf-8 without touching the trial list.
func DecodeFile(data []byte) (content string, usedEncoding string, err error) {
	if len(data) == 0 {
		return "", defaultEncoding, nil
	}
	for _, name := range encodingTrialOrder {
		decoded, ok := tryDecode(name, data)
		if ok {
			return decoded, name, nil
		}
	}
	return "", "", newError(ErrParse, "Unable to read existing file with any of the attempted encodings: "+joinEncodingNames())
}

func joinEncodingNames() string {
	out := ""
	for i, n := range encodingTrialOrder {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}

func tryDecode(name string, data []byte) (string, bool) {
	switch name {
	case EncodingUTF8:
		if !utf8.Valid(data) {
			return "", false
		}
		return string(data), true
	case EncodingASCII:
		for _, b := range data {
			if b > 0x7F {
				return "", false
			}
		}
		return string(data), true
	case EncodingUTF16:
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), data)
	case EncodingUTF16LE:
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), data)
	case EncodingCP1252:
		return decodeWith(charmap.Windows1252, data)
	case EncodingISO88591:
		return decodeWith(charmap.ISO8859_1, data)
	default:
		return "", false
	}
}

func decodeWith(enc encoding.Encoding, data []byte) (string, bool) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

// EncodeFile encodes content back into the named encoding, for writing a
// patched file out in the same encoding it was read in.
func EncodeFile(content string, encodingName string) ([]byte, error) {
	switch encodingName {
	case EncodingUTF8, EncodingASCII, "":
		return []byte(content), nil
	case EncodingUTF16:
		return encodeWith(unicode.UTF16(unicode.BigEndian, unicode.UseBOM), content)
	case EncodingUTF16LE:
		return encodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), content)
	case EncodingCP1252:
		return encodeWith(charmap.Windows1252, content)
	case EncodingISO88591:
		return encodeWith(charmap.ISO8859_1, content)
	default:
		return []byte(content), nil
	}
}

func encodeWith(enc encoding.Encoding, content string) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(content))
	if err != nil {
		return nil, err
	}
	return out, nil
}
