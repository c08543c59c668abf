package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/stratify-labs/stratify/internal/cleanse"
	"github.com/stratify-labs/stratify/internal/dag"
	"github.com/stratify-labs/stratify/internal/dimension"
	"github.com/stratify-labs/stratify/internal/record"
	"github.com/stratify-labs/stratify/internal/warehouse"
)

// pipelineState carries the cleansed and dimensional sets between stages of
// one run. Stages in the same execution level touch disjoint fields; the
// level barrier orders everything else.
type pipelineState struct {
	wh  *warehouse.Warehouse
	now time.Time

	customers  []record.Customer
	products   []record.Product
	sales      []record.SalesLine
	demos      []record.CustomerDemo
	locations  []record.CustomerLocation
	categories []record.ProductCategory

	customerDim []record.CustomerDim
	productDim  []record.ProductDim
}

// stage is one node of the pipeline graph. run returns the number of rows
// written to the warehouse.
type stage struct {
	id   string
	deps []string
	run  func(ctx context.Context, p *pipelineState) (int64, error)
}

// pipelineStages defines the full pipeline. Cleansing stages are
// independent; dimensions depend on their canonical inputs; the fact table
// depends on both dimensions.
func pipelineStages() []stage {
	return []stage{
		{
			id: "cleanse.customers",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawCustomers(ctx)
				if err != nil {
					return 0, err
				}
				p.customers = cleanse.Customers(raws)
				if err := p.wh.WriteCustomers(ctx, p.customers); err != nil {
					return 0, err
				}
				return int64(len(p.customers)), nil
			},
		},
		{
			id: "cleanse.products",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawProducts(ctx)
				if err != nil {
					return 0, err
				}
				p.products = cleanse.Products(raws)
				if err := p.wh.WriteProducts(ctx, p.products); err != nil {
					return 0, err
				}
				return int64(len(p.products)), nil
			},
		},
		{
			id: "cleanse.sales",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawSalesLines(ctx)
				if err != nil {
					return 0, err
				}
				p.sales = cleanse.SalesLines(raws)
				if err := p.wh.WriteSalesLines(ctx, p.sales); err != nil {
					return 0, err
				}
				return int64(len(p.sales)), nil
			},
		},
		{
			id: "cleanse.customer_demo",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawCustomerDemos(ctx)
				if err != nil {
					return 0, err
				}
				p.demos = cleanse.CustomerDemos(raws, p.now)
				if err := p.wh.WriteCustomerDemos(ctx, p.demos); err != nil {
					return 0, err
				}
				return int64(len(p.demos)), nil
			},
		},
		{
			id: "cleanse.customer_locations",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawCustomerLocations(ctx)
				if err != nil {
					return 0, err
				}
				p.locations = cleanse.CustomerLocations(raws)
				if err := p.wh.WriteCustomerLocations(ctx, p.locations); err != nil {
					return 0, err
				}
				return int64(len(p.locations)), nil
			},
		},
		{
			id: "cleanse.product_categories",
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				raws, err := p.wh.RawProductCategories(ctx)
				if err != nil {
					return 0, err
				}
				p.categories = cleanse.ProductCategories(raws)
				if err := p.wh.WriteProductCategories(ctx, p.categories); err != nil {
					return 0, err
				}
				return int64(len(p.categories)), nil
			},
		},
		{
			id:   "mart.dim_customers",
			deps: []string{"cleanse.customers", "cleanse.customer_demo", "cleanse.customer_locations"},
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				p.customerDim = dimension.BuildCustomerDim(p.customers, p.demos, p.locations)
				if err := p.wh.WriteCustomerDim(ctx, p.customerDim); err != nil {
					return 0, err
				}
				return int64(len(p.customerDim)), nil
			},
		},
		{
			id:   "mart.dim_products",
			deps: []string{"cleanse.products", "cleanse.product_categories"},
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				p.productDim = dimension.BuildProductDim(p.products, p.categories)
				if err := p.wh.WriteProductDim(ctx, p.productDim); err != nil {
					return 0, err
				}
				return int64(len(p.productDim)), nil
			},
		},
		{
			id:   "mart.fact_sales",
			deps: []string{"cleanse.sales", "mart.dim_customers", "mart.dim_products"},
			run: func(ctx context.Context, p *pipelineState) (int64, error) {
				facts := dimension.BuildSalesFact(p.sales, p.customerDim, p.productDim)
				if err := p.wh.WriteSalesFacts(ctx, facts); err != nil {
					return 0, err
				}
				return int64(len(facts)), nil
			},
		},
	}
}

// buildGraph assembles the stage dependency graph.
func buildGraph(stages []stage) (*dag.Graph, error) {
	g := dag.NewGraph()
	for i := range stages {
		g.AddNode(stages[i].id, &stages[i])
	}
	for _, st := range stages {
		for _, dep := range st.deps {
			if err := g.AddEdge(dep, st.id); err != nil {
				return nil, fmt.Errorf("invalid stage graph: %w", err)
			}
		}
	}
	return g, nil
}
