// Package core contains the canonical CRM reconciliation domain: entities,
// store contracts, webhook event shapes, field extraction and normalization
// helpers, and the contact/deal reconciliation engine. Adapters (SQL stores,
// inbound dispatching, transport) depend on this package; core must not
// depend on storage or transport specifics.
package core
