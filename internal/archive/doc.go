// Package archive contains the handles used to write and read zip archives.
//
// A Writer is created with Create, which truncates an existing file. Entries
// are queued with AddDir and AddFile. File entries are lazy: the source file
// is only opened and streamed into the archive when Close is called, so it
// must stay unmodified until then. Close always releases the underlying file.
//
// A Reader is opened with Open and gives access to the entries by index:
// NumEntries, Stat and OpenEntry.
//
// Both handles are owned by a single caller and must not be shared between
// goroutines.
package archive
