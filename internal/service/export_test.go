package service

// ExportsInFlight gives service_test access to the export bookkeeping.
type ExportsInFlight = exportsInFlight
