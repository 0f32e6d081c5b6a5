// Package items is the demo application: one documented PUT route taking a
// path parameter and three embedded body parameters.
package items

import (
	g "github.com/reoring/skemapi/dsl"
)

type Item struct {
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	Tax         *float64 `json:"tax"`
}

type User struct {
	Username string  `json:"username"`
	FullName *string `json:"full_name"`
}

// UpdateItemBody is the envelope of the three body parameters of
// update_item.
type UpdateItemBody struct {
	Item       Item `json:"item"`
	User       User `json:"user"`
	Importance int  `json:"importance"`
}

type ItemPath struct {
	ItemID int `json:"item_id"`
}

// UpdateItemResponse echoes an accepted update.
type UpdateItemResponse struct {
	ItemID     int  `json:"item_id"`
	Item       Item `json:"item"`
	User       User `json:"user"`
	Importance int  `json:"importance"`
}

var ItemSchema = g.ObjectOf[Item]().
	Named("Item").
	Field("name", g.StringOf[string]()).Required().
	Field("price", g.FloatOf[float64]()).Required().
	Field("description", g.StringOf[string]()).Optional().
	Field("tax", g.FloatOf[float64]()).Optional().
	UnknownStrip().
	MustBind()

var UserSchema = g.ObjectOf[User]().
	Named("User").
	Field("username", g.StringOf[string]()).Required().
	Field("full_name", g.StringOf[string]()).Optional().
	UnknownStrip().
	MustBind()

var UpdateItemBodySchema = g.ObjectOf[UpdateItemBody]().
	Field("item", g.SchemaOf[Item](ItemSchema)).Required().
	Field("user", g.SchemaOf[User](UserSchema)).Required().
	Field("importance", g.IntOf[int]()).Required().
	UnknownStrip().
	MustBind()

var ItemPathSchema = g.ObjectOf[ItemPath]().
	Field("item_id", g.SchemaOf[int](g.Int().CoerceFromString())).Required().
	MustBind()
