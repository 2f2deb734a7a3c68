// spatial-bench exercises the dynamic BVH from the command line: build a
// random scene, churn it for a number of frames, and report tree shape and
// query throughput. The dump subcommand prints the structural dump for
// eyeballing balance quality.
package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"github.com/gekko3d/spatial"
	"github.com/gekko3d/spatial/bvh"
	"github.com/gekko3d/spatial/geom"
)

var logger spatial.Logger = spatial.NewDefaultLogger("spatial-bench", false)

func main() {
	app := cli.NewApp()
	app.Name = "spatial-bench"
	app.Usage = "exercise and inspect the dynamic BVH"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging (rebuild decisions etc.)",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		logger.SetDebug(ctx.GlobalBool("debug"))
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:  "bench",
			Usage: "build a random scene, churn it, and report timings",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "objects", Value: 10000, Usage: "number of scene objects"},
				cli.IntFlag{Name: "frames", Value: 120, Usage: "frames of churn to simulate"},
				cli.Float64Flag{Name: "churn", Value: 0.05, Usage: "fraction of objects moved per frame"},
				cli.Int64Flag{Name: "seed", Value: 1, Usage: "rng seed"},
			},
			Action: runBench,
		},
		{
			Name:  "dump",
			Usage: "print the structural dump of a small random tree",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "objects", Value: 16, Usage: "number of scene objects"},
				cli.Int64Flag{Name: "seed", Value: 1, Usage: "rng seed"},
			},
			Action: runDump,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

const worldHalf = 1000.0

func newTree() (*bvh.Tree[uuid.UUID], error) {
	world := geom.AABB{
		Min: mgl32.Vec3{-worldHalf, -worldHalf, -worldHalf},
		Max: mgl32.Vec3{worldHalf, worldHalf, worldHalf},
	}
	return bvh.New[uuid.UUID](world, bvh.WithLogger[uuid.UUID](logger))
}

func randomBox(rng *rand.Rand) geom.AABB {
	center := mgl32.Vec3{
		rng.Float32()*1800 - 900,
		rng.Float32()*1800 - 900,
		rng.Float32()*1800 - 900,
	}
	half := mgl32.Vec3{
		0.5 + rng.Float32()*4,
		0.5 + rng.Float32()*4,
		0.5 + rng.Float32()*4,
	}
	return geom.FromCenterExtents(center, half)
}

func benchFrustum() geom.Frustum {
	proj := mgl32.Perspective(mgl32.DegToRad(70), 16.0/9.0, 0.1, 1500.0)
	view := mgl32.LookAtV(
		mgl32.Vec3{0, 100, 900},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0},
	)
	return geom.FrustumFromMatrix(proj.Mul4(view))
}

func runBench(ctx *cli.Context) error {
	count := ctx.Int("objects")
	frames := ctx.Int("frames")
	churn := ctx.Float64("churn")
	rng := rand.New(rand.NewSource(ctx.Int64("seed")))

	tree, err := newTree()
	if err != nil {
		return err
	}

	ids := make([]bvh.ObjectId, 0, count)
	for i := 0; i < count; i++ {
		id, err := tree.Add(randomBox(rng), uuid.New())
		if err != nil {
			return fmt.Errorf("add object %d: %w", i, err)
		}
		ids = append(ids, id)
	}

	buildStart := time.Now()
	tree.Restructure()
	buildTime := time.Since(buildStart)

	// Churn phase: move a fraction of the objects each frame and commit.
	moved := int(float64(count) * churn)
	var restructureTotal time.Duration
	for f := 0; f < frames; f++ {
		for i := 0; i < moved; i++ {
			id := ids[rng.Intn(len(ids))]
			if err := tree.Update(id, randomBox(rng)); err != nil {
				return err
			}
		}
		start := time.Now()
		tree.Restructure()
		restructureTotal += time.Since(start)
	}

	// Query phase.
	frustum := benchFrustum()
	cullStart := time.Now()
	visible := tree.Cull(frustum)
	cullTime := time.Since(cullStart)

	const rayCount = 1000
	rayStart := time.Now()
	hits := 0
	for i := 0; i < rayCount; i++ {
		ray := geom.Ray{
			Origin: mgl32.Vec3{0, 0, -worldHalf},
			Direction: mgl32.Vec3{
				rng.Float32()*2 - 1,
				rng.Float32()*2 - 1,
				1,
			},
		}
		if len(tree.Intersect(ray, bvh.First)) > 0 {
			hits++
		}
	}
	rayTime := time.Since(rayStart)

	stats := tree.Stats()
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Objects", fmt.Sprintf("%d", tree.Count())})
	table.Append([]string{"Nodes", fmt.Sprintf("%d", stats.Nodes)})
	table.Append([]string{"Leaves", fmt.Sprintf("%d", stats.Leaves)})
	table.Append([]string{"Max depth", fmt.Sprintf("%d", stats.MaxDepth)})
	table.Append([]string{"Avg leaf depth", fmt.Sprintf("%.2f", stats.AvgLeafDepth)})
	table.Append([]string{"SAH cost", fmt.Sprintf("%.1f", stats.SAHCost)})
	table.Append([]string{"Full build", buildTime.String()})
	table.Append([]string{"Restructure (avg)", (restructureTotal / time.Duration(frames)).String()})
	table.Append([]string{"Cull", fmt.Sprintf("%s (%d visible)", cullTime, len(visible))})
	table.Append([]string{"Rays x1000 (first)", fmt.Sprintf("%s (%d hit)", rayTime, hits)})
	table.Render()

	logger.Infof("bench results\n%s", buf.String())
	return nil
}

func runDump(ctx *cli.Context) error {
	rng := rand.New(rand.NewSource(ctx.Int64("seed")))

	tree, err := newTree()
	if err != nil {
		return err
	}
	for i := 0; i < ctx.Int("objects"); i++ {
		if _, err := tree.Add(randomBox(rng), uuid.New()); err != nil {
			return err
		}
	}
	tree.Restructure()

	fmt.Print(tree.DebugString())
	stats := tree.Stats()
	fmt.Printf("%d nodes, %d leaves, max depth %d\n", stats.Nodes, stats.Leaves, stats.MaxDepth)
	return nil
}
