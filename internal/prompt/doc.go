// Package prompt implements the two interactive questions the scaffolder
// asks: a free-text answer with an initial value and validation, and a yes/no
// toggle. The Prompter interface lets the flow run against scripted answers
// in tests.
package prompt
