// Package security implements persistence for the controller Snapshot.
//
// Repository is the contract the security service depends on. Three backends
// are provided: MemoryRepository keeps the snapshot in process, FileRepository
// stores it as JSON on disk, and SQLRepository keeps it in a gorm database.
package security
