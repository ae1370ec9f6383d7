// Package ir provides the shared record and value types for genpare.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps ir the foundational
// layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - salaries, ages and averages are int64
//   - Enum values travel as their exact upper-case wire names
//   - Dates are civil dates (UTC midnight), serialized as YYYY-MM-DD
//   - All JSON tags use the camelCase names of the public wire format
package ir
