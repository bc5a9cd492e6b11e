package mapping

import "encoding/json"

// ProjectBranchResultsetFields reduces each branch document to the
// requested field names. The id always survives projection so responses
// stay addressable. An empty field list is the identity.
func ProjectBranchResultsetFields(resultset interface{}, fields []string) interface{} {
	if len(fields) == 0 {
		return resultset
	}
	raw, err := json.Marshal(resultset)
	if err != nil {
		return resultset
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return resultset
	}
	var items []map[string]json.RawMessage
	if err := json.Unmarshal(doc["branches"], &items); err != nil {
		return resultset
	}

	keep := map[string]bool{"id": true}
	for _, f := range fields {
		keep[f] = true
	}
	projected := make([]map[string]json.RawMessage, len(items))
	for k, item := range items {
		out := make(map[string]json.RawMessage)
		for key, value := range item {
			if keep[key] {
				out[key] = value
			}
		}
		projected[k] = out
	}
	rendered, err := json.Marshal(projected)
	if err != nil {
		return resultset
	}
	doc["branches"] = rendered
	return doc
}
