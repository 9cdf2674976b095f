package store

import "encoding/json"

// Well-known attribute bag keys. Attribute values are strings; list-valued
// attributes are JSON-encoded with EncodeList/DecodeList.
const (
	AttrEmail       = "email"
	AttrPassword    = "password"
	AttrRoles       = "roles"
	AttrScopes      = "scopes"
	AttrIsOwner     = "is_owner"
	AttrDescription = "description"
	AttrEmbedderID  = "embedder_id"
	AttrProvider    = "provider"
	AttrModel       = "model"
	AttrDimensions  = "dimensions"
)

// EncodeList encodes a string list for storage in the attribute bag.
func EncodeList(values []string) string {
	if len(values) == 0 {
		return ""
	}

	encoded, _ := json.Marshal(values)

	return string(encoded)
}

// DecodeList decodes a list-valued attribute, tolerating the empty string.
func DecodeList(value string) []string {
	if value == "" {
		return nil
	}

	var values []string
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil
	}

	return values
}
