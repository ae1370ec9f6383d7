// Package harness runs query scenarios end to end.
//
// A scenario is a YAML file holding a reference time, the members and
// salaries to store, one request body and the expected outcome:
//
//	name: berlin-average
//	description: average over the Berlin salaries only
//	now: "2026-10-18"
//	members:
//	  - email: a@example.com
//	    birthdate: "1990-06-15"
//	    gender: MALE
//	    salary: {salary: 1000, jobTitle: Baker, state: BERLIN, levelOfEducation: MASTER}
//	request:
//	  filters: [{name: state, desiredState: BERLIN}]
//	  resultTransformers: [{name: average}]
//	expect:
//	  assertions:
//	    - path: results.0.averageTotal
//	      equals: 1000
//
// Run executes the request through a real engine against a fresh store of
// the chosen backend. Its snapshot (the response envelope, or the error
// code for a rejected request) is compared against the expectations and,
// in tests, against a golden file. RunAll checks that every backend
// produces the same snapshot.
package harness
