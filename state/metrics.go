// Copyright (c) 2018 The Ember developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import "github.com/emberchain/ember/metrics"

var metricCacheCounter = metrics.LazyLoadCounterVec("account_cache_count", []string{"event"})
