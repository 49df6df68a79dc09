// Package syncer coordinates the offline mutation queue with the remote
// authority.
//
// An Engine owns the queue, the read cache and the progress publisher. It
// replays pending mutations in flush passes. At most one pass runs at a
// time; requests that arrive while a pass is running are dropped. A pass is
// requested when:
//  1. the network monitor reports an offline to online transition,
//  2. the sync interval elapses while online,
//  3. a high-priority mutation is enqueued while online,
//  4. Initialize finds the network online,
//  5. a caller invokes Flush.
//
// A failed mutation stays queued with its retry counter raised and is not
// attempted again until BaseRetryDelay << Retries has passed since the last
// failure. Once Retries reaches MaxRetries it is evicted.
package syncer
