package models

import "github.com/jmoiron/sqlx/types"

// MCFWebhook is an outgoing notification registration scoped to an org,
// project, or branch through Reference. Webhooks referencing a branch are
// cascade-deleted with it.
type MCFWebhook struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the webhook's composite identifier
	ID string `db:"id" json:"id"`
	// Reference is the composite identifier of the org, project, or branch
	// whose events this webhook subscribes to
	Reference string `db:"reference" json:"reference"`
	// Name is the human-readable webhook name
	Name string `db:"name" json:"name"`
	// Triggers is the JSON list of event actions this webhook fires on
	Triggers types.JSONText `db:"triggers" json:"triggers"`
	// URL is the endpoint notified when a trigger matches
	URL string `db:"url" json:"url"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}
