package models

// TransactionSummary aggregates the ledger for one transaction type.
type TransactionSummary struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	Total int    `json:"total"`
}

// Statistics is the admin dashboard snapshot. Energy totals cover
// only users without infinite energy.
type Statistics struct {
	TotalUsers     int                  `json:"totalUsers"`
	ActiveSessions int                  `json:"activeSessions"`
	TotalEnergy    int                  `json:"totalEnergy"`
	AvgEnergy      float64              `json:"avgEnergy"`
	Transactions   []TransactionSummary `json:"transactions"`
}
