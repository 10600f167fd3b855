package sp3

import "github.com/go-playground/validator/v10"

// validate is a single shared validator instance; the library caches
// struct reflection info per instance, so it is constructed once and
// reused by every Validate method in the package.
var validate = validator.New()
