package databases

import "go.mongodb.org/mongo-driver/mongo/options"

// pageOpts turns a 1-based page number into skip/limit find options. Out of
// range values fall back to the first page.
func pageOpts(limit, page int) *options.FindOptions {
	if limit < 1 {
		limit = 1
	}
	if page < 1 {
		page = 1
	}
	skip := int64(page-1) * int64(limit)
	return options.Find().SetLimit(int64(limit)).SetSkip(skip)
}
