package cache

import "time"

// KeyBillingBundles holds the JSON-encoded billing working set (all
// to-invoice projects with their entries and totals). Every project, time
// entry, or invoice mutation deletes the key; the billing view refetches on
// the next read.
const KeyBillingBundles = "billing:bundles"

// BillingTTL bounds staleness if an invalidation is ever missed.
const BillingTTL = 5 * time.Minute
