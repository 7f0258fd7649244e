package model

import "time"

// Listing is a bookable resource (a campsite pitch, cabin or similar)
// with a fixed number of people that may occupy it on any single
// calendar day.  Listings are owned by the catalog service and are
// read-only to this core; only the fields needed for availability
// decisions are loaded.
//
// Fields:
//  ID            – primary key identifier.
//  Name          – human-readable listing name.
//  DailyCapacity – maximum simultaneous headcount per calendar day.
//  CreatedAt     – creation timestamp.
type Listing struct {
    ID            uint64    // listings.id
    Name          string    // listings.name
    DailyCapacity int       // listings.daily_capacity
    CreatedAt     time.Time // listings.created_at
}
