// Package schemas embeds the JSON Schemas for plan files and result files.
package schemas

import _ "embed"

// SearchPlan is the schema for search plan files.
//
//go:embed search_plan.schema.json
var SearchPlan []byte

// JobResults is the schema for result files written by the search command.
//
//go:embed job_results.schema.json
var JobResults []byte
