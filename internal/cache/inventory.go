package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const (
	UserKeyPrefix     = "user:%d"
	TruckKeyPrefix    = "truck:%d"
	CityListingPrefix = "trucks:city:%s"
	DirectoryKey      = "trucks:directory"
)

const (
	UserTTL      = 5 * time.Minute
	TruckTTL     = 10 * time.Minute
	DirectoryTTL = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TruckKey(truckID uint) string {
	return fmt.Sprintf(TruckKeyPrefix, truckID)
}

// CityKey normalizes the city so "Raleigh" and "raleigh" share an entry.
func CityKey(city string) string {
	return fmt.Sprintf(CityListingPrefix, strings.ToLower(city))
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

// InvalidateTruck drops the truck entry plus the listings it appears in.
func InvalidateTruck(ctx context.Context, truckID uint, city string) {
	Invalidate(ctx, TruckKey(truckID))
	Invalidate(ctx, CityKey(city))
	Invalidate(ctx, DirectoryKey)
}
