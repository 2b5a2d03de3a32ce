package journal

import (
	"fmt"
	"slices"

	"github.com/huangsam/steptrack/schema"
)

// PrintDraftStatus prints draft store status information.
func PrintDraftStatus(status schema.DraftStatus) {
	fmt.Printf("Draft Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Drafts: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		fmt.Printf("Last Draft: %s\n", status.LastEntryTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Draft: %s\n", status.OldestEntryTime.Format("2006-01-02 15:04:05"))
	}
	fmt.Printf("Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintJournalStatus prints revision journal status information.
func PrintJournalStatus(status schema.JournalStatus) {
	fmt.Printf("Journal Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Revisions: %d\n", status.TotalRevisions)
	if status.TotalRevisions > 0 {
		fmt.Printf("Last Revision ID: %d\n", status.LastRevisionID)
		fmt.Printf("Last Save: %s\n", status.LastSavedTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Oldest Save: %s\n", status.OldestSaveTime.Format("2006-01-02 15:04:05"))
		fmt.Printf("Sessions Tracked: %d\n", status.TotalSessions)
	}
	fmt.Println("Table Sizes:")
	tables := make([]string, 0, len(status.TableSizes))
	for table := range status.TableSizes {
		tables = append(tables, table)
	}
	slices.Sort(tables)
	for _, table := range tables {
		fmt.Printf("  %s: %d rows\n", table, status.TableSizes[table])
	}
}
