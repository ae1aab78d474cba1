package discovery

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeRelayTXT creates the TXT records of a relay advertisement.
func EncodeRelayTXT(info *RelayInfo) TXTRecordMap {
	path := info.Path
	if path == "" {
		path = DefaultPath
	}
	txt := TXTRecordMap{
		TXTKeyPath:    path,
		TXTKeyVersion: strconv.Itoa(ProtocolVersion),
	}
	if info.Scanner != "" {
		txt[TXTKeyScanner] = info.Scanner
	}
	return txt
}

// DecodeRelayTXT parses the TXT records of a relay advertisement. The path
// and version are required.
func DecodeRelayTXT(txt TXTRecordMap) (path string, version int, scanner string, err error) {
	path, ok := txt[TXTKeyPath]
	if !ok {
		return "", 0, "", fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyPath)
	}
	if !strings.HasPrefix(path, "/") {
		return "", 0, "", fmt.Errorf("%w: path %q", ErrInvalidTXTRecord, path)
	}
	v, ok := txt[TXTKeyVersion]
	if !ok {
		return "", 0, "", fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyVersion)
	}
	version, err = strconv.Atoi(v)
	if err != nil || version < 1 {
		return "", 0, "", fmt.Errorf("%w: version %q", ErrInvalidTXTRecord, v)
	}
	return path, version, txt[TXTKeyScanner], nil
}

// TXTRecordsToStrings converts a TXTRecordMap to sorted "key=value" strings.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	result := make([]string, 0, len(txt))
	for k, v := range txt {
		result = append(result, k+"="+v)
	}
	slices.Sort(result)
	return result
}

// StringsToTXTRecords parses "key=value" strings into a TXTRecordMap.
func StringsToTXTRecords(strs []string) TXTRecordMap {
	txt := make(TXTRecordMap)
	for _, s := range strs {
		k, v, found := strings.Cut(s, "=")
		if found {
			txt[k] = v
		} else if k != "" {
			// Key without value (boolean flag)
			txt[k] = ""
		}
	}
	return txt
}

// ValidateInstanceName checks if an instance name is valid for mDNS.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: instance name", ErrMissingRequired)
	}
	if len(name) > MaxInstanceNameLen {
		return ErrInstanceNameTooLong
	}
	return nil
}
