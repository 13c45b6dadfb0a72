// Package todo models the task list and reads, writes, and validates the
// backing file.
//
// The backing file (tasks.json) is a JSON array of task records:
//
//	[
//	  {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "completed": true,
//	    "createdAt": "2024-01-01T09:00:00Z",
//	    "completedAt": "2024-01-01T18:30:00Z"
//	  },
//	  {
//	    "id": 2,
//	    "description": "Walk dog",
//	    "completed": false,
//	    "createdAt": "2024-01-01T09:05:00Z"
//	  }
//	]
//
// # Identifiers
//
// A new task gets max(existing ids)+1, or 1 on an empty list. The value is
// recomputed from the live list on every add; there is no stored counter, so
// deleting the highest id and adding again hands out the same id.
//
// # Validation
//
// Validate checks raw file contents against the embedded JSON Schema
// (draft 2020-12, format assertions on) and then runs the semantic checks the
// schema cannot express, such as id uniqueness. Load never validates: it only
// parses.
//
// # File Format
//
// When writing the backing file, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - A full rewrite through a sibling temp file and rename
package todo
