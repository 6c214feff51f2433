/*
Package meridian provides an inverted-file (IVF) vector index together with
the planner-facing cost model that decides when — and how hard — to use it.

# Overview

An IVF index partitions the vector space into a fixed number of "lists"
(Voronoi cells) using k-means clustering. A query probes only the lists whose
centroids are nearest to the query vector instead of scanning every vector,
trading a little recall for a large speedup.

That tradeoff creates a planning problem: before running a query, the
optimizer needs to know how expensive an index scan will be and how many
rows it is likely to return. Both depend on how many lists the scan probes,
and the right probe count in turn depends on the query's LIMIT and on the
selectivity of its other filters. Meridian models this in four pieces:

  - Config: the probe configuration (fixed probes, optional ceiling,
    streaming toggle), snapshotted per planning call.
  - ProbeController: decides how many lists to probe, either the fixed
    configured count or an adaptive estimate derived from the limit and
    the combined filter selectivity.
  - CostEstimator: turns the probe decision into startup cost, total cost,
    selectivity, correlation and page count for the planner, including a
    page-cost-mix correction for oversized rows.
  - Capabilities: the static descriptor that registers the index type with
    the planner and names its build phases for progress reporting.

# Quick Start

Build an index and estimate the cost of scanning it:

	package main

	import (
	    "fmt"
	    "log"

	    "github.com/meridiandb/meridian"
	)

	func main() {
	    // Create an IVF index for 384-dimensional vectors with 100 lists.
	    index, err := meridian.NewIVFIndex(384, 100, meridian.Cosine)
	    if err != nil {
	        log.Fatal(err)
	    }

	    // Train on a representative sample, then load vectors.
	    if err := index.Train(trainingVectors); err != nil {
	        log.Fatal(err)
	    }

	    // Ask the cost model what a LIMIT 10 scan would cost.
	    catalog := meridian.NewCatalog()
	    catalog.Register("items_embedding_idx", index)

	    estimator := meridian.NewCostEstimator(catalog, meridian.DefaultConfig(), nil)
	    estimate, err := estimator.Estimate("items_embedding_idx", 1, meridian.QueryContext{
	        Ordered:     true,
	        IndexTuples: 100000,
	        IndexPages:  500,
	        RelTuples:   100000,
	        RelPages:    2000,
	        PageCosts:   meridian.DefaultPageCosts(),
	    })
	    if err != nil {
	        log.Fatal(err)
	    }
	    fmt.Printf("total cost: %f\n", estimate.TotalCost)
	}

# Streaming Scans

With Config.Streaming enabled, the probe controller estimates how many lists
a limited query needs to visit to produce its LIMIT worth of rows, instead of
always probing a fixed count. The search side mirrors this at execution time:
a streaming search starts from the planned probe count and widens the probed
list set until the limit is satisfied or the configured ceiling is reached.
*/
package meridian
