package model

// CategoryCount pairs a category with how many transactions of a cluster
// carry it.
type CategoryCount struct {
	Category string
	Count    int
}

// ClusterSummary is the human-readable description of one behavioral
// spending cluster.
type ClusterSummary struct {
	Name             string
	TimeFocus        string
	TopCategories    []CategoryCount
	TransactionCount int
	AverageAmount    float64
}

// Persona groups the cluster summaries produced by one clustering run.
type Persona struct {
	Title    string
	Clusters []ClusterSummary
}
