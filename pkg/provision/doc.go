// Package provision runs the coin swap demo sequence for one account: fund
// gas, issue and register coins A and B, mint supply, create the pool, then
// swap and report reserves before and after.
//
// Every mutating step first checks chain state and is skipped when its
// effect is already present, so rerunning after a partial failure resumes
// where the previous run stopped. Each submitted transaction is awaited
// before the next step starts.
package provision
