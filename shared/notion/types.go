package notion

// PropertyType is the schema type tag that selects the decoding strategy for
// a property's raw value. Tags outside this vocabulary decode as plain text.
type PropertyType string

const (
	PropertyText        PropertyType = "text"
	PropertyDate        PropertyType = "date"
	PropertySelect      PropertyType = "select"
	PropertyMultiSelect PropertyType = "multi_select"
	PropertyPerson      PropertyType = "person"
	PropertyFile        PropertyType = "file"
)

// SchemaEntry declares one collection property: its display name and the
// type tag used to decode its raw value.
type SchemaEntry struct {
	Name string
	Type PropertyType
}

// Schema maps a stable property key to its declaration.
type Schema map[string]SchemaEntry

// RecordMap is the page graph fetched for one root page. Each table keeps its
// entries loosely typed because the nesting differs between API versions and
// paths; UnwrapRecord normalizes individual entries on access.
type RecordMap struct {
	Block           map[string]any `json:"block"`
	Collection      map[string]any `json:"collection"`
	CollectionView  map[string]any `json:"collection_view"`
	CollectionQuery map[string]any `json:"collection_query"`
}

// User is a raw record from the user directory.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	GivenName    string `json:"given_name"`
	FamilyName   string `json:"family_name"`
	ProfilePhoto string `json:"profile_photo"`
}

// ParseSchema converts an unwrapped schema node into a Schema. Entries that
// are not objects are skipped; a nil or non-object input yields nil.
func ParseSchema(raw any) Schema {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}

	schema := make(Schema, len(obj))
	for key, entry := range obj {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		schema[key] = SchemaEntry{
			Name: StringValue(m, "name"),
			Type: PropertyType(StringValue(m, "type")),
		}
	}

	if len(schema) == 0 {
		return nil
	}
	return schema
}
