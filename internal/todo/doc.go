// Package todo holds the task list and persists it to a key-value slot.
//
// The slot value is a JSON array of task records:
//
//	[
//	  {
//	    "id": 1717171717171,
//	    "text": "Buy milk",
//	    "completed": false,
//	    "createdAt": "2024-05-31T16:08:37.171Z"
//	  }
//	]
//
// The id is the creation instant in Unix milliseconds. Tasks keep their
// insertion order; nothing re-sorts them.
//
// # Loading
//
// A Store reads its slot once, when opened. A missing slot gives an empty
// list. The stored value is checked against the embedded JSON Schema
// (tasks.schema.json, draft 2020-12) before it is decoded. A value that fails
// the check is copied to "<key>.corrupt" and the store starts empty.
//
// # Saving
//
// Every mutation (Add, Toggle of an existing task, Delete, ClearCompleted)
// encodes the whole list and overwrites the slot.
//
// # Filters
//
//   - "all": every task
//   - "active": tasks with completed=false
//   - "completed": tasks with completed=true
package todo
