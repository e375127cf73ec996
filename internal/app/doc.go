// Package app wires application dependencies for the CLI.
//
// It loads Config (defaults, YAML file, .env file, environment), builds the
// concrete stores, connectivity monitor, dispatcher and services from it,
// and exposes them via the Wire struct for commands to use. BindNavigator
// connects the onboarding router to a host navigator.
package app
