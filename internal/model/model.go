package model

// All lists every table of the catalog schema in migration order.
var All = []any{
	&Author{},
	&Genre{},
	&Book{},
	&BookInstance{},
}
