package http

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/kahvecikaan/ecommerce-api/internal/domain"
	"github.com/kahvecikaan/ecommerce-api/internal/service"
	"github.com/shopspring/decimal"
)

// productForm is a multipart product submission. Field names accept both
// camelCase and the older snake_case spelling.
type productForm struct {
	values map[string][]string
	image  *service.Image
	file   multipart.File
}

func parseForm(r *http.Request) (*productForm, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, domain.InvalidArgument("Unable to parse form")
	}

	form := &productForm{values: r.MultipartForm.Value}

	file, header, err := r.FormFile("image")
	switch {
	case err == nil:
		form.file = file
		form.image = &service.Image{Filename: header.Filename, Content: file}
	case errors.Is(err, http.ErrMissingFile):
	default:
		return nil, domain.InvalidArgument("Unable to read image")
	}
	return form, nil
}

func (f *productForm) close() {
	if f.file != nil {
		f.file.Close()
	}
}

// get reports the first value under any of the names and whether the field was sent
func (f *productForm) get(names ...string) (string, bool) {
	for _, n := range names {
		if v, ok := f.values[n]; ok && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

func (f *productForm) productRequest() (domain.ProductRequest, error) {
	req := domain.ProductRequest{}
	req.Name, _ = f.get("name")
	req.Description, _ = f.get("description")
	req.ProductCode, _ = f.get("productCode", "product_code")
	req.Model, _ = f.get("model")
	req.Type, _ = f.get("type")

	if v, ok := f.get("price"); ok && v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return req, domain.InvalidArgument("Invalid value for price: %s", v)
		}
		req.Price = &d
	}
	if v, ok := f.get("purchasable"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return req, domain.InvalidArgument("Invalid value for purchasable: %s", v)
		}
		req.Purchasable = &b
	}
	if v, ok := f.get("specifications", "specificationsJson"); ok && v != "" {
		specs, err := parseSpecifications(v)
		if err != nil {
			return req, err
		}
		req.Specifications = specs
	}
	if v, ok := f.get("categoryId"); ok && v != "" {
		id, err := idParam(v, "category id")
		if err != nil {
			return req, err
		}
		req.CategoryID = &id
	}
	return req, nil
}

// productPatch maps form fields onto a patch: a missing field is left
// unchanged and an empty value is an explicit null
func (f *productForm) productPatch() (domain.ProductPatch, error) {
	var p domain.ProductPatch
	p.Type = f.optString("type")
	p.Name = f.optString("name")
	p.Description = f.optString("description")
	p.ProductCode = f.optString("productCode", "product_code")
	p.Model = f.optString("model")

	if v, ok := f.get("price"); ok {
		if v == "" {
			p.Price = domain.Null[decimal.Decimal]()
		} else {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return p, domain.InvalidArgument("Invalid value for price: %s", v)
			}
			p.Price = domain.Some(d)
		}
	}
	if v, ok := f.get("purchasable"); ok {
		if v == "" {
			p.Purchasable = domain.Null[bool]()
		} else {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return p, domain.InvalidArgument("Invalid value for purchasable: %s", v)
			}
			p.Purchasable = domain.Some(b)
		}
	}
	if v, ok := f.get("specifications", "specificationsJson"); ok {
		if v == "" {
			p.Specifications = domain.Null[domain.Specifications]()
		} else {
			specs, err := parseSpecifications(v)
			if err != nil {
				return p, err
			}
			p.Specifications = domain.Some(specs)
		}
	}
	if v, ok := f.get("categoryId"); ok {
		if v == "" {
			p.CategoryID = domain.Null[int64]()
		} else {
			id, err := idParam(v, "category id")
			if err != nil {
				return p, err
			}
			p.CategoryID = domain.Some(id)
		}
	}
	return p, nil
}

func (f *productForm) optString(names ...string) domain.Optional[string] {
	v, ok := f.get(names...)
	switch {
	case !ok:
		return domain.Optional[string]{}
	case v == "":
		return domain.Null[string]()
	default:
		return domain.Some(v)
	}
}

func parseSpecifications(raw string) (domain.Specifications, error) {
	var specs domain.Specifications
	if err := json.Unmarshal([]byte(raw), &specs); err != nil {
		return nil, domain.InvalidArgument("Invalid specifications JSON")
	}
	return specs, nil
}
