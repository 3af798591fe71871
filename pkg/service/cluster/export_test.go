package cluster

// Test-only accessors for unexported helpers
type WardMerge = wardMerge

var CutDendrogram = cutDendrogram

func NewWardMerge(left, right, node int, cost float64) WardMerge {
	return wardMerge{left: left, right: right, node: node, cost: cost}
}
