package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Run                *runBlock             `hcl:"run,block"`
	Mesh               *meshBlock            `hcl:"mesh,block"`
	Time               *timeBlock            `hcl:"time,block"`
	ModelVariables     []*modelVariableBlock `hcl:"model_variable,block"`
	ModelParameters    *sectionBlock         `hcl:"model_parameters,block"`
	BoundaryConditions []*boundaryBlock      `hcl:"boundary_conditions,block"`
	InitialConditions  *sectionBlock         `hcl:"initial_conditions,block"`
	ReferenceSolutions *sectionBlock         `hcl:"reference_solutions,block"`
	Probe              *probeBlock           `hcl:"probe,block"`
	Output             *outputBlock          `hcl:"output,block"`
}

type runBlock struct {
	Model     string `hcl:"model,optional"`
	ImportDir string `hcl:"import_dir,optional"`
}

type meshBlock struct {
	File string `hcl:"file"`
	Dim  int    `hcl:"dim,optional"`
}

type timeBlock struct {
	Start float64 `hcl:"start,optional"`
	Step  float64 `hcl:"step,optional"`
	Steps int     `hcl:"steps,optional"`
}

type modelVariableBlock struct {
	Name    string         `hcl:"name,label"`
	Initial hcl.Expression `hcl:"initial"`
	Update  hcl.Expression `hcl:"update,optional"`
}

// sectionBlock is a block of free-form expression attributes.
type sectionBlock struct {
	Body hcl.Body `hcl:",remain"`
}

type boundaryBlock struct {
	Kind string   `hcl:"kind,label"`
	Body hcl.Body `hcl:",remain"`
}

type probeBlock struct {
	Points hcl.Expression `hcl:"points"`
}

type outputBlock struct {
	Store     string `hcl:"store,optional"`
	Publish   string `hcl:"publish,optional"`
	Namespace string `hcl:"namespace,optional"`
	Event     string `hcl:"event,optional"`
}
