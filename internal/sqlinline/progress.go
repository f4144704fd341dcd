package sqlinline

const QSelectProgress = `--sql 2740ead8-b7dd-4c50-b3dc-089c9f9460fa
select progress
from users
where id = $1::uuid;
`

// QSelectProgressForUpdate holds the row lock until the transaction ends.
const QSelectProgressForUpdate = `--sql 0538a850-48fc-417d-bf00-b427b20d898b
select progress
from users
where id = $1::uuid
for update;
`

// QSetProgressModule writes a single top-level key, leaving sibling modules untouched.
const QSetProgressModule = `--sql c8cec6a9-2dfa-48a6-8143-551c4b8d42e1
update users
set progress = jsonb_set(
        jsonb_set(coalesce(progress, '{}'::jsonb), array[$2::text], $3::jsonb, true),
        '{schemaVersion}', to_jsonb($4::int), true
    ),
    updated_at = now()
where id = $1::uuid;
`

const QReplaceProgress = `--sql 45465c89-e9ee-4ff6-a8d1-9704e61b4a97
update users
set progress = $2::jsonb,
    updated_at = now()
where id = $1::uuid;
`
