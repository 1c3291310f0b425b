package catalog

import "strings"

// specialWireNames maps field names whose wire spelling does not follow the
// plain snake_case → PascalCase rule (UPnP capitalizes ID/URI acronyms).
var specialWireNames = map[string]string{
	"instance_id":            "InstanceID",
	"current_uri":            "CurrentURI",
	"current_uri_meta_data":  "CurrentURIMetaData",
	"next_uri":               "NextURI",
	"next_uri_meta_data":     "NextURIMetaData",
	"enqueued_uri":           "EnqueuedURI",
	"enqueued_uri_meta_data": "EnqueuedURIMetaData",
	"object_id":              "ObjectID",
	"update_id":              "UpdateID",
	"alarm_id":               "AlarmID",
	"group_id":               "GroupID",
	"member_id":              "MemberID",
}

// wireName converts a snake_case field name to its wire tag name.
func wireName(field string) string {
	if w, ok := specialWireNames[field]; ok {
		return w
	}

	parts := strings.Split(field, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
